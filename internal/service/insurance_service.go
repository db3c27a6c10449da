package service

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type insuredLister interface {
	ListInsured(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// InsuranceServiceConfig tunes policy derivation.
type InsuranceServiceConfig struct {
	ExpiringWindow time.Duration
	VerifyBaseURL  string
	CacheTTL       time.Duration
	CardSize       int
}

// InsuranceService derives policy views from students' insurance blocks.
type InsuranceService struct {
	students insuredLister
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      InsuranceServiceConfig
	now      func() time.Time
}

// NewInsuranceService constructs an InsuranceService.
func NewInsuranceService(students insuredLister, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg InsuranceServiceConfig) *InsuranceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExpiringWindow <= 0 {
		cfg.ExpiringWindow = 30 * 24 * time.Hour
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.CardSize <= 0 {
		cfg.CardSize = 256
	}
	cfg.VerifyBaseURL = strings.TrimRight(cfg.VerifyBaseURL, "/")
	return &InsuranceService{
		students: students,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Policies lists policies matching filter, expired ones first.
func (s *InsuranceService) Policies(ctx context.Context, filter models.InsuranceFilter) ([]models.InsurancePolicy, error) {
	all, err := s.policies(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.InsurancePolicy, 0, len(all))
	for _, p := range all {
		if !matchesStatus(p, filter.Status) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Stats aggregates policy counts and coverage.
func (s *InsuranceService) Stats(ctx context.Context) (*models.InsuranceStats, error) {
	all, err := s.policies(ctx)
	if err != nil {
		return nil, err
	}
	stats := summarize(all)
	return &stats, nil
}

// CardPNG renders the QR code used to verify a student's digital insurance card.
func (s *InsuranceService) CardPNG(ctx context.Context, studentID string) ([]byte, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if student.Insurance == nil || strings.TrimSpace(student.Insurance.PolicyNumber) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no insurance policy")
	}
	png, err := qrcode.Encode(s.verifyURL(student.Insurance.PolicyNumber), qrcode.Medium, s.cfg.CardSize)
	if err != nil {
		return nil, internalError(err, "failed to render insurance card")
	}
	return png, nil
}

// Sweep refreshes the cached policy view and the expiry gauges.
func (s *InsuranceService) Sweep(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, insuranceCachePattern); err != nil {
		s.logger.Warn("insurance cache invalidation failed", zap.Error(err))
	}
	all, err := s.policies(ctx)
	if err != nil {
		s.logger.Warn("insurance sweep failed", zap.Error(err))
		return
	}
	stats := summarize(all)
	s.metrics.SetInsuranceCounts(stats.ExpiringSoon, stats.Expired)
	for _, p := range all {
		if p.Status == models.InsuranceStatusExpiring {
			s.logger.Info("insurance policy expiring",
				zap.String("student_id", p.StudentID),
				zap.String("policy_number", p.PolicyNumber),
				zap.Int("days_remaining", p.DaysRemaining))
		}
	}
	s.logger.Info("insurance sweep",
		zap.Int("total", stats.Total),
		zap.Int("expiring", stats.ExpiringSoon),
		zap.Int("expired", stats.Expired))
}

func (s *InsuranceService) policies(ctx context.Context) ([]models.InsurancePolicy, error) {
	policies, _, err := readThrough(ctx, s.cache, insuranceCacheKey, s.cfg.CacheTTL,
		func(ctx context.Context) ([]models.InsurancePolicy, error) {
			students, err := s.students.ListInsured(ctx)
			if err != nil {
				return nil, appErrors.Storage(err, "failed to load insured students")
			}
			return derivePolicies(students, models.NewDate(s.now()), s.cfg.ExpiringWindow), nil
		})
	return policies, err
}

func (s *InsuranceService) verifyURL(policyNumber string) string {
	escaped := url.PathEscape(strings.TrimSpace(policyNumber))
	if s.cfg.VerifyBaseURL == "" {
		return escaped
	}
	return s.cfg.VerifyBaseURL + "/" + escaped
}

func derivePolicies(students []models.Student, today models.Date, window time.Duration) []models.InsurancePolicy {
	horizon := models.NewDate(today.Add(window))
	policies := make([]models.InsurancePolicy, 0, len(students))
	for _, st := range students {
		info := st.Insurance
		if info == nil || (info.Provider == "" && info.PolicyNumber == "") {
			continue
		}
		p := models.InsurancePolicy{
			StudentID:      st.ID,
			StudentCode:    st.StudentCode,
			StudentName:    st.FullName(),
			BranchID:       st.BranchID,
			Provider:       info.Provider,
			PolicyNumber:   info.PolicyNumber,
			Type:           info.Type,
			CoverageAmount: info.CoverageAmount,
			StartDate:      info.StartDate,
			EndDate:        info.EndDate,
			Status:         models.InsuranceStatusActive,
		}
		if end := info.EndDate; end != nil && !end.IsZero() {
			p.DaysRemaining = int(end.Sub(today.Time).Hours() / 24)
			switch {
			case !end.After(today.Time):
				p.Status = models.InsuranceStatusExpired
			case !end.After(horizon.Time):
				p.Status = models.InsuranceStatusExpiring
				p.ExpiringSoon = true
			}
		}
		policies = append(policies, p)
	}
	sort.SliceStable(policies, func(i, j int) bool {
		ei := policies[i].Status == models.InsuranceStatusExpired
		ej := policies[j].Status == models.InsuranceStatusExpired
		if ei != ej {
			return ei
		}
		return endBefore(policies[i].EndDate, policies[j].EndDate)
	})
	return policies
}

// endBefore orders by end date with open-ended policies last.
func endBefore(a, b *models.Date) bool {
	switch {
	case a == nil || a.IsZero():
		return false
	case b == nil || b.IsZero():
		return true
	default:
		return a.Before(b.Time)
	}
}

func matchesStatus(p models.InsurancePolicy, status models.InsuranceStatus) bool {
	switch status {
	case "":
		return true
	case models.InsuranceStatusActive:
		return p.Status != models.InsuranceStatusExpired
	default:
		return p.Status == status
	}
}

func matchesSearch(p models.InsurancePolicy, search string) bool {
	for _, field := range []string{p.StudentName, p.StudentCode, p.Provider, p.PolicyNumber} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func summarize(policies []models.InsurancePolicy) models.InsuranceStats {
	stats := models.InsuranceStats{Total: len(policies), TotalCoverage: decimal.Zero}
	for _, p := range policies {
		switch p.Status {
		case models.InsuranceStatusExpired:
			stats.Expired++
		case models.InsuranceStatusExpiring:
			stats.Active++
			stats.ExpiringSoon++
		default:
			stats.Active++
		}
		if p.Status != models.InsuranceStatusExpired {
			stats.TotalCoverage = stats.TotalCoverage.Add(p.CoverageAmount)
		}
	}
	return stats
}
