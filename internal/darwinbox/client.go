package darwinbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sagarbagwe/darwinbox-ai-agent/config"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/validate"
	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

const (
	leavePath      = "/leavesactionapi/leaveActionTakenLeaves"
	employeePath   = "/masterapi/employee"
	attendancePath = "/attendanceDataApi/DailyAttendanceRoster"
)

// Client issues authenticated POSTs against the Darwinbox API and
// translates every outcome into a ToolResult. Its operations never
// return Go errors: failures are classified values.
type Client struct {
	baseURL  string
	username string
	password string

	leaveKey           string
	employeeKey        string
	employeeDatasetKey string
	attendanceKey      string

	httpClient *http.Client
	logger     zerolog.Logger

	shortTimeout  time.Duration
	mediumTimeout time.Duration
	longTimeout   time.Duration

	roster rosterCache
	now    func() time.Time
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	ttl := cfg.RosterCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Client{
		baseURL:            strings.TrimRight(cfg.DarwinboxURL, "/"),
		username:           cfg.DarwinboxUsername,
		password:           cfg.DarwinboxPassword,
		leaveKey:           cfg.LeaveAPIKey,
		employeeKey:        cfg.EmployeeAPIKey,
		employeeDatasetKey: cfg.EmployeeDatasetKey,
		attendanceKey:      cfg.AttendanceAPIKey,
		httpClient:         &http.Client{},
		logger:             logger,
		shortTimeout:       15 * time.Second,
		mediumTimeout:      30 * time.Second,
		longTimeout:        60 * time.Second,
		roster:             rosterCache{ttl: ttl},
		now:                time.Now,
	}
}

// LeaveReport fetches approved (action taken) leave records for one
// employee in a date window. Dates arrive as YYYY-MM-DD and are
// converted to the DD-MM-YYYY form the leave endpoint expects.
func (c *Client) LeaveReport(ctx context.Context, employeeID, startDate, endDate string) *models.ToolResult {
	if !validate.IsEmployeeID(employeeID) {
		return models.Failure(models.FailureValidation, fmt.Sprintf("invalid employee ID: %q", employeeID))
	}
	if err := validate.DateWindow(startDate, endDate, c.now()); err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}

	from, err := validate.ConvertDate(startDate, validate.LayoutISO, validate.LayoutDarwinbox)
	if err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}
	to, err := validate.ConvertDate(endDate, validate.LayoutISO, validate.LayoutDarwinbox)
	if err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}

	payload := map[string]any{
		"api_key":     c.leaveKey,
		"from":        from,
		"to":          to,
		"action":      "2", // action taken = approved leaves
		"action_from": from,
		"employee_no": []string{strings.TrimSpace(employeeID)},
	}

	data, failure := c.post(ctx, leavePath, payload, c.mediumTimeout)
	if failure != nil {
		return failure
	}

	return models.Success(data, map[string]any{
		"employee_id":  employeeID,
		"query_period": fmt.Sprintf("%s to %s", startDate, endDate),
	})
}

// EmployeeInfo fetches master profile records for explicit IDs.
func (c *Client) EmployeeInfo(ctx context.Context, employeeIDs []string) *models.ToolResult {
	if err := validate.EmployeeIDs(employeeIDs); err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}

	clean := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		clean = append(clean, strings.TrimSpace(id))
	}

	payload := map[string]any{
		"api_key":      c.employeeKey,
		"datasetKey":   c.employeeDatasetKey,
		"employee_ids": clean,
	}

	data, failure := c.post(ctx, employeePath, payload, c.shortTimeout)
	if failure != nil {
		return failure
	}

	return models.Success(data, map[string]any{
		"requested_employee_ids": employeeIDs,
	})
}

// AllEmployees fetches the full organization roster. The same master
// endpoint without an employee_ids field returns everyone; the parsed
// body is cached for RosterCacheTTL to keep repeated name searches
// from re-pulling the largest payload the backend serves.
func (c *Client) AllEmployees(ctx context.Context) *models.ToolResult {
	if cached, ok := c.roster.get(c.now()); ok {
		return models.Success(cached, map[string]any{
			"request_type":   "all_employees",
			"employee_count": countEmployees(cached),
			"cached":         true,
		})
	}

	payload := map[string]any{
		"api_key":    c.employeeKey,
		"datasetKey": c.employeeDatasetKey,
	}

	data, failure := c.post(ctx, employeePath, payload, c.longTimeout)
	if failure != nil {
		return failure
	}

	c.roster.set(data, c.now())

	return models.Success(data, map[string]any{
		"request_type":   "all_employees",
		"employee_count": countEmployees(data),
	})
}

// AttendanceReport fetches per-day attendance roster entries. Unlike
// the leave endpoint, this one takes dates in YYYY-MM-DD as-is.
func (c *Client) AttendanceReport(ctx context.Context, employeeIDs []string, fromDate, toDate string) *models.ToolResult {
	if err := validate.EmployeeIDs(employeeIDs); err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}
	if err := validate.DateWindow(fromDate, toDate, c.now()); err != nil {
		return models.Failure(models.FailureValidation, err.Error())
	}

	clean := make([]string, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		clean = append(clean, strings.TrimSpace(id))
	}

	payload := map[string]any{
		"api_key":         c.attendanceKey,
		"emp_number_list": clean,
		"from_date":       fromDate,
		"to_date":         toDate,
	}

	data, failure := c.post(ctx, attendancePath, payload, c.mediumTimeout)
	if failure != nil {
		return failure
	}

	return models.Success(data, map[string]any{
		"employee_ids": employeeIDs,
		"query_period": fmt.Sprintf("%s to %s", fromDate, toDate),
	})
}

// post performs one authenticated request and classifies the outcome.
// This is the only place transport errors are caught; everything above
// sees ToolResults.
func (c *Client) post(ctx context.Context, path string, payload map[string]any, timeout time.Duration) (any, *models.ToolResult) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, models.Failure(models.FailureUnexpected, fmt.Sprintf("failed to encode request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, models.Failure(models.FailureUnexpected, fmt.Sprintf("failed to create request: %v", err))
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("path", path).Msg("calling Darwinbox API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var data any
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			c.logger.Error().Err(err).Str("path", path).Msg("non-JSON body on 200 response")
			return nil, models.Failure(models.FailureMalformedResponse, "invalid JSON response from API")
		}
		return data, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, models.Failure(models.FailureAuthentication, "authentication failed, check Darwinbox credentials")
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.Failure(models.FailureNotFound, "API endpoint not found, check the Darwinbox URL")
	case resp.StatusCode >= 500:
		return nil, models.Failure(models.FailureServer, fmt.Sprintf("server error %d, try again later", resp.StatusCode))
	default:
		return nil, models.Failure(models.FailureUnexpected, fmt.Sprintf("unexpected response status %d", resp.StatusCode))
	}
}

func classifyTransport(err error) *models.ToolResult {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.Failure(models.FailureTransport, "request timed out, try again")
	}
	return models.Failure(models.FailureTransport, "unable to connect to the Darwinbox API")
}

func countEmployees(data any) int {
	switch v := data.(type) {
	case map[string]any:
		if list, ok := v["data"].([]any); ok {
			return len(list)
		}
	case []any:
		return len(v)
	}
	return 0
}
