package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/darwinbox"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

// Backend is the slice of the Darwinbox client the tool handlers
// need. Stubbed in tests.
type Backend interface {
	LeaveReport(ctx context.Context, employeeID, startDate, endDate string) *models.ToolResult
	EmployeeInfo(ctx context.Context, employeeIDs []string) *models.ToolResult
	AllEmployees(ctx context.Context) *models.ToolResult
	AttendanceReport(ctx context.Context, employeeIDs []string, fromDate, toDate string) *models.ToolResult
	RosterEntries(ctx context.Context) ([]map[string]any, *models.ToolResult)
}

// StringList normalizes list-valued tool arguments. Model connections
// are not consistent about sequence encoding: a JSON array, an array
// of mixed scalars, or a bare string all decode to a plain ordered
// slice, so handlers never see connection-specific shapes.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var asList []any
	if err := json.Unmarshal(b, &asList); err == nil {
		out := make([]string, 0, len(asList))
		for _, v := range asList {
			out = append(out, fmt.Sprintf("%v", v))
		}
		*l = out
		return nil
	}

	var asString string
	if err := json.Unmarshal(b, &asString); err == nil {
		if asString == "" {
			*l = nil
		} else {
			*l = []string{asString}
		}
		return nil
	}

	return fmt.Errorf("expected a list of strings or a string, got %s", string(b))
}

type leaveReportInput struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type employeeInfoInput struct {
	EmployeeIDs StringList `json:"employee_ids"`
}

type attendanceReportInput struct {
	EmployeeIDs StringList `json:"employee_ids"`
	FromDate    string     `json:"from_date"`
	ToDate      string     `json:"to_date"`
}

type nameQueryInput struct {
	Name string `json:"name"`
}

// NewToolRegistry builds the full operation catalog over one backend
// client. The catalog is a superset; surfaces narrow it with
// Registry.Subset.
func NewToolRegistry(backend Backend, logger zerolog.Logger) *Registry {
	r := NewRegistry()

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "get_leave_report",
			Description: "Retrieves approved/actioned leave records for a specific employee within a date range. Use this when users ask about leaves, absences, or time-off for an employee.",
			Parameters: map[string]any{
				"employee_id": map[string]any{
					"type":        "string",
					"description": "The unique employee identifier (e.g., 'MMT6765', 'EMP001')",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "Start date for the query in YYYY-MM-DD format",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "End date for the query in YYYY-MM-DD format",
				},
			},
			Required: []string{"employee_id", "start_date", "end_date"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			var params leaveReportInput
			if err := json.Unmarshal(input, &params); err != nil {
				return models.Failure(models.FailureValidation, fmt.Sprintf("invalid input: %v", err))
			}
			return backend.LeaveReport(ctx, params.EmployeeID, params.StartDate, params.EndDate)
		},
	})

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "get_employee_info",
			Description: "Gets core master profile data for one or more employees by ID: manager, email, team, designation, and other profile details. Use this for who-is-who questions when you already have employee IDs.",
			Parameters: map[string]any{
				"employee_ids": map[string]any{
					"type":        "array",
					"description": "A list of one or more employee numbers, e.g., ['MMT6765', 'EMP001']",
					"items":       map[string]any{"type": "string"},
				},
			},
			Required: []string{"employee_ids"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			var params employeeInfoInput
			if err := json.Unmarshal(input, &params); err != nil {
				return models.Failure(models.FailureValidation, fmt.Sprintf("invalid input: %v", err))
			}
			return backend.EmployeeInfo(ctx, params.EmployeeIDs)
		},
	})

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "get_all_employees",
			Description: "Retrieves master data for ALL employees in the organization. Use this when users want the full employee list or organization-wide counts. This is the most expensive call.",
			Parameters:  map[string]any{},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			return backend.AllEmployees(ctx)
		},
	})

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "get_attendance_report",
			Description: "Retrieves daily attendance roster data for employees within a date range. Use this for questions about attendance, check-in/check-out times, or presence.",
			Parameters: map[string]any{
				"employee_ids": map[string]any{
					"type":        "array",
					"description": "A list of one or more employee numbers",
					"items":       map[string]any{"type": "string"},
				},
				"from_date": map[string]any{
					"type":        "string",
					"description": "Start date in YYYY-MM-DD format",
				},
				"to_date": map[string]any{
					"type":        "string",
					"description": "End date in YYYY-MM-DD format",
				},
			},
			Required: []string{"employee_ids", "from_date", "to_date"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			var params attendanceReportInput
			if err := json.Unmarshal(input, &params); err != nil {
				return models.Failure(models.FailureValidation, fmt.Sprintf("invalid input: %v", err))
			}
			return backend.AttendanceReport(ctx, params.EmployeeIDs, params.FromDate, params.ToDate)
		},
	})

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "search_employee_by_name",
			Description: "Search for employees by their name to find employee IDs. Use this when you need search results or expect multiple matches. The name can be a first name, last name, or full name.",
			Parameters: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "The employee name to search for",
				},
			},
			Required: []string{"name"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			var params nameQueryInput
			if err := json.Unmarshal(input, &params); err != nil {
				return models.Failure(models.FailureValidation, fmt.Sprintf("invalid input: %v", err))
			}
			logger.Debug().Str("query", params.Name).Msg("searching roster by name")
			return searchByName(ctx, backend, params.Name)
		},
	})

	r.Register(Tool{
		Definition: llm.ToolDefinition{
			Name:        "get_employee_details_by_name",
			Description: "Get complete employee details by searching with a name. This is the primary function when users ask for employee details by name: it combines name search with full profile retrieval, and asks for disambiguation when several employees match.",
			Parameters: map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "The employee name to search for",
				},
			},
			Required: []string{"name"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) *models.ToolResult {
			var params nameQueryInput
			if err := json.Unmarshal(input, &params); err != nil {
				return models.Failure(models.FailureValidation, fmt.Sprintf("invalid input: %v", err))
			}
			return detailsByName(ctx, backend, params.Name)
		},
	})

	return r
}

// searchByName fetches the roster (through the client cache) and
// filters it with the substring/token matcher.
func searchByName(ctx context.Context, backend Backend, name string) *models.ToolResult {
	query := strings.TrimSpace(name)
	if len(query) < 2 {
		return models.Failure(models.FailureValidation, "name must be at least 2 characters long")
	}

	entries, failure := backend.RosterEntries(ctx)
	if failure != nil {
		return failure
	}

	matches := darwinbox.MatchEmployees(entries, query)
	if len(matches) == 0 {
		return models.Failure(models.FailureNotFound,
			fmt.Sprintf("no employees found matching %q, check the spelling or try a different name", name))
	}

	return models.Success(map[string]any{
		"matches_found": len(matches),
		"employees":     matches,
	}, map[string]any{
		"search_query": name,
	})
}

// detailsByName composes name search with the profile lookup. Exactly
// one match resolves directly; several matches come back as bounded
// summaries for the user to choose from, never an automatic pick.
func detailsByName(ctx context.Context, backend Backend, name string) *models.ToolResult {
	query := strings.TrimSpace(name)
	if len(query) < 2 {
		return models.Failure(models.FailureValidation, "name must be at least 2 characters long")
	}

	entries, failure := backend.RosterEntries(ctx)
	if failure != nil {
		return failure
	}

	matches := darwinbox.MatchEmployees(entries, query)

	switch len(matches) {
	case 0:
		return models.Failure(models.FailureNotFound,
			fmt.Sprintf("no employees found matching %q, check the spelling or try a different name", name))
	case 1:
		match := matches[0]
		details := backend.EmployeeInfo(ctx, []string{match.EmployeeID})
		if details.IsFailure() {
			return details
		}
		return models.Success(map[string]any{
			"employee_found": match,
			"details":        details.Data,
		}, map[string]any{
			"search_query": name,
		})
	default:
		summaries := make([]map[string]string, 0, len(matches))
		for _, m := range matches {
			summaries = append(summaries, m.Summary())
		}
		return models.Success(map[string]any{
			"outcome":       "multiple_matches",
			"matches_found": len(matches),
			"employees":     summaries,
			"message":       fmt.Sprintf("Found %d employees matching %q. Please specify which one you meant.", len(matches), name),
		}, map[string]any{
			"search_query": name,
		})
	}
}
