package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Portal API",
        "description": "Enrollment, attendance and insurance tracking for a multi-branch school portal.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"}},
    "tags": [
        {"name": "Setup", "description": "Branches, programs and classes"},
        {"name": "Students", "description": "Admission and student records"},
        {"name": "Enrollments", "description": "Enrollment lifecycle and billing"},
        {"name": "Attendance", "description": "Per-session attendance"},
        {"name": "Reports", "description": "Attendance reports and exports"},
        {"name": "Insurance", "description": "Student insurance policies"},
        {"name": "Dashboard", "description": "Headline counts"}
    ],
    "paths": {
        "/branches": {
            "get": {
                "tags": ["Setup"],
                "summary": "List branches",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Setup"],
                "summary": "Create branch",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BranchRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/branches/{id}": {
            "get": {
                "tags": ["Setup"],
                "summary": "Get branch",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Branch ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Setup"],
                "summary": "Update branch",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Branch ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/BranchRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Setup"],
                "summary": "Delete branch",
                "produces": ["application/json"],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Branch ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/programs": {
            "get": {
                "tags": ["Setup"],
                "summary": "List programs",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "branchId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by branch"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Setup"],
                "summary": "Create program",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateProgramRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/classes": {
            "get": {
                "tags": ["Setup"],
                "summary": "List classes",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "branchId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by branch"
                    },
                    {
                        "name": "programId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by program"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Search by class name"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Setup"],
                "summary": "Create class",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateClassRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Setup"],
                "summary": "Get class detail",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true, "description": "Class ID"}],
                "security": [{"BearerAuth": []}]
            }
        },
        "/classes/{id}/attendance-report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Class attendance report",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "name": "denominator",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "recorded or configured"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/classes/{id}/attendance-report/exports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue attendance report export",
                "produces": ["application/json"],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Class ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ExportRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export job status",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Export job ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export",
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "Signed download token"
                    }
                ]
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "branchId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by branch"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Active, Hold or Inactive"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Search by name or student code"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Students"],
                "summary": "Admit student",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/StudentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Student ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Student ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/StudentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "produces": ["application/json"],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Student ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by student"
                    },
                    {
                        "name": "classId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by class"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by enrollment status"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll student into class",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateEnrollmentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}/payment": {
            "patch": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment payment",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdatePaymentRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/enrollments/{id}/status": {
            "patch": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment status",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateEnrollmentStatusRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "classId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by class"
                    },
                    {
                        "name": "enrollmentId",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Filter by enrollment"
                    },
                    {
                        "name": "sessionDate",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Session date (YYYY-MM-DD)"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page, applied when page or limit is set or no filter is given"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for a session",
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateAttendanceRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Attendance"],
                "summary": "Update attendance record named by attendance_id",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateAttendanceRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/attendance/{id}": {
            "put": {
                "tags": ["Attendance"],
                "summary": "Update attendance record",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Attendance ID"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateAttendanceRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/attendance/quick-mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a session with a shorthand token",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/QuickMarkRequest"}
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/insurance/policies": {
            "get": {
                "tags": ["Insurance"],
                "summary": "List insurance policies",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Active, Expiring or Expired"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Search by student, provider or policy number"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/insurance/stats": {
            "get": {
                "tags": ["Insurance"],
                "summary": "Insurance statistics",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/insurance/policies/{studentId}/card.png": {
            "get": {
                "tags": ["Insurance"],
                "summary": "Digital insurance card QR code",
                "produces": ["image/png"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "studentId",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Student ID"
                    }
                ],
                "security": [{"BearerAuth": []}]
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Portal dashboard summary",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {
                        "description": "Validation or business rule error",
                        "schema": {"$ref": "#/definitions/ResponseEnvelope"}
                    },
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "rule": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "BranchRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreateProgramRequest": {
            "type": "object",
            "properties": {
                "branch_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "total_sessions": {"type": "integer"},
                "price": {"type": "number", "minimum": 0}
            },
            "required": ["branch_id", "name", "total_sessions", "price"]
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "branch_id": {"type": "string"},
                "program_id": {"type": "string"},
                "class_name": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "max_students": {"type": "integer"},
                "total_sessions": {"type": "integer"}
            },
            "required": ["branch_id", "program_id", "class_name", "days", "start_time", "end_time"]
        },
        "InsuranceRequest": {
            "type": "object",
            "properties": {
                "provider": {"type": "string"},
                "policy_number": {"type": "string"},
                "type": {"type": "string"},
                "coverage_amount": {"type": "number", "minimum": 0},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["provider", "policy_number", "start_date", "end_date"]
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "student_code": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "gender": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "place_of_birth": {"type": "string"},
                "nationality": {"type": "string"},
                "branch_id": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "admission_date": {"type": "string"},
                "father_name": {"type": "string"},
                "father_occupation": {"type": "string"},
                "mother_name": {"type": "string"},
                "mother_occupation": {"type": "string"},
                "parent_phone": {"type": "string"},
                "image_url": {"type": "string"},
                "insurance_info": {"$ref": "#/definitions/InsuranceRequest"}
            },
            "required": ["first_name", "last_name", "gender", "branch_id"]
        },
        "CreateEnrollmentRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "class_id": {"type": "string"},
                "term": {"type": "string"},
                "start_session": {"type": "integer"},
                "total_amount": {"type": "number", "minimum": 0},
                "discount": {"type": "number", "minimum": 0},
                "paid_amount": {"type": "number", "minimum": 0},
                "payment_type": {"type": "string"},
                "payment_expired": {"type": "string"}
            },
            "required": ["student_id", "class_id", "start_session", "total_amount", "payment_type"]
        },
        "UpdatePaymentRequest": {
            "type": "object",
            "properties": {
                "total_amount": {"type": "number", "minimum": 0},
                "discount": {"type": "number", "minimum": 0},
                "paid_amount": {"type": "number", "minimum": 0},
                "payment_type": {"type": "string"},
                "payment_expired": {"type": "string"}
            }
        },
        "UpdateEnrollmentStatusRequest": {
            "type": "object",
            "properties": {"enrollment_status": {"type": "string"}},
            "required": ["enrollment_status"]
        },
        "CreateAttendanceRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "string"},
                "class_id": {"type": "string"},
                "student_id": {"type": "string"},
                "session_number": {"type": "integer"},
                "session_date": {"type": "string"},
                "status": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["enrollment_id", "class_id", "student_id", "session_number", "session_date", "status"]
        },
        "UpdateAttendanceRequest": {
            "type": "object",
            "properties": {"attendance_id": {"type": "string"}, "status": {"type": "string"}, "reason": {"type": "string"}},
            "required": ["status"]
        },
        "QuickMarkRequest": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "string"},
                "session_number": {"type": "integer"},
                "session_date": {"type": "string"},
                "token": {"type": "string"},
                "note": {"type": "string"}
            },
            "required": ["enrollment_id", "session_number", "session_date", "token"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {"format": {"type": "string"}, "denominator": {"type": "string"}},
            "required": ["format"]
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
