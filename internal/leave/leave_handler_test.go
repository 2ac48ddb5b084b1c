package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alechulkin/modfac/internal/leave"
	leaveerrors "github.com/alechulkin/modfac/internal/leave/errors"
	"github.com/alechulkin/modfac/internal/shared/apperror"
	"github.com/alechulkin/modfac/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	CaptureFn          func(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error)
	GetByIDFn          func(ctx context.Context, id string) (leave.LeaveResponse, error)
	GetAllByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Capture(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error) {
	return f.CaptureFn(ctx, req)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeLeaveService) GetAllByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.GetAllByEmployeeFn(ctx, employeeID)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	return gin.New()
}

func captureBody(employeeID, approvedByID string) string {
	return `{
		"employee_id": "` + employeeID + `",
		"leave_type": "SICK",
		"start_date": "2026-03-01",
		"end_date": "2026-03-02",
		"approved_by_id": "` + approvedByID + `",
		"reason": "Flu"
	}`
}

func TestLeaveHandler_Capture(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		approvedByID := uuid.New().String()

		svc := &fakeLeaveService{
			CaptureFn: func(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, "SICK", req.LeaveType)
				return leave.LeaveResponse{
					ID:               uuid.New().String(),
					EmployeeID:       employeeID,
					LeaveType:        "SICK",
					TotalDays:        2,
					Status:           "PENDING",
					RemainingBalance: 8,
				}, nil
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.POST("/leaves", handler.Capture)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(captureBody(employeeID, approvedByID)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var envelope response.ApiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.Ok)

		data := envelope.Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["total_days"])
		assert.Equal(t, float64(8), data["remaining_balance"])
	})

	t.Run("negative validation error", func(t *testing.T) {
		svc := &fakeLeaveService{
			CaptureFn: func(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on validation failure")
				return leave.LeaveResponse{}, nil
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.POST("/leaves", handler.Capture)

		body := `{"employee_id": "not-a-uuid", "leave_type": "HOLIDAY"}`
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative insufficient balance maps to 400", func(t *testing.T) {
		svc := &fakeLeaveService{
			CaptureFn: func(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.POST("/leaves", handler.Capture)

		req := httptest.NewRequest(http.MethodPost, "/leaves",
			strings.NewReader(captureBody(uuid.New().String(), uuid.New().String())))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Insufficient leave balance")
	})

	t.Run("negative approver mismatch maps to 400", func(t *testing.T) {
		svc := &fakeLeaveService{
			CaptureFn: func(ctx context.Context, req leave.CaptureLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotApprovedByManager
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.POST("/leaves", handler.Capture)

		req := httptest.NewRequest(http.MethodPost, "/leaves",
			strings.NewReader(captureBody(uuid.New().String(), uuid.New().String())))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "manager of record")
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeLeaveService{
			GetByIDFn: func(ctx context.Context, targetID string) (leave.LeaveResponse, error) {
				assert.Equal(t, id, targetID)
				return leave.LeaveResponse{ID: id, LeaveType: "VACATION", Status: "APPROVED"}, nil
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.GET("/leaves/:id", handler.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/leaves/"+id, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id)
	})

	t.Run("negative not found maps to 404", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(ctx context.Context, targetID string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.GET("/leaves/:id", handler.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/leaves/"+uuid.New().String(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_GetAllByEmployee(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		employeeID := uuid.New().String()
		svc := &fakeLeaveService{
			GetAllByEmployeeFn: func(ctx context.Context, eid string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				return []leave.LeaveResponse{{ID: uuid.New().String(), EmployeeID: eid}}, nil
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.GET("/leaves", handler.GetAllByEmployee)

		req := httptest.NewRequest(http.MethodGet, "/leaves?employee_id="+employeeID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), employeeID)
	})

	t.Run("negative missing employee_id", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetAllByEmployeeFn: func(ctx context.Context, eid string) ([]leave.LeaveResponse, error) {
				t.Fatal("service must not be called without employee_id")
				return nil, nil
			},
		}

		r := setupRouter()
		handler := leave.NewHandler(svc)
		r.GET("/leaves", handler.GetAllByEmployee)

		req := httptest.NewRequest(http.MethodGet, "/leaves", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
