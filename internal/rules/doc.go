// Package rules holds the enrollment and attendance decision logic shared by
// the HTTP services: payment status derivation, the attendance eligibility
// guard, the attendance shorthand parser and the class report aggregator.
//
// Everything here is pure. Storage, locking and transport live in the
// service layer, which feeds loaded records in and maps the typed
// rejections returned here onto API errors.
package rules
