package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/infrastructure/http/validator"
	"github.com/deskpulse/deskpulse/internal/domain"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// TaskHandler handles the demand board
type TaskHandler struct {
	taskUseCase *usecase.TaskUseCase
	validator   *validator.Validator
}

func NewTaskHandler(taskUseCase *usecase.TaskUseCase, v *validator.Validator) *TaskHandler {
	return &TaskHandler{taskUseCase: taskUseCase, validator: v}
}

type deleteSeriesResponse struct {
	Deleted int `json:"deleted"`
}

// RegisterRoutes registers task routes. Fixed paths come before {id}.
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tasks", h.List).Methods(http.MethodGet)
	router.HandleFunc("/tasks", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/tasks/summary", h.Summary).Methods(http.MethodGet)
	router.HandleFunc("/tasks/series/{seriesId}", h.DeleteSeries).Methods(http.MethodDelete)
	router.HandleFunc("/tasks/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{id}", h.Patch).Methods(http.MethodPatch)
	router.HandleFunc("/tasks/{id}", h.Delete).Methods(http.MethodDelete)
}

// dayQuery reads ?workspace=&date=&responsavel=&operacao=. The workspace
// defaults to the shared one and the day to today.
func (h *TaskHandler) dayQuery(r *http.Request) domain.TaskQuery {
	q := r.URL.Query()
	query := domain.TaskQuery{
		WorkspaceID: q.Get("workspace"),
		YMD:         q.Get("date"),
		Responsavel: q.Get("responsavel"),
		Operacao:    q.Get("operacao"),
	}
	if query.WorkspaceID == "" {
		query.WorkspaceID = usecase.DefaultWorkspace
	}
	if query.YMD == "" {
		query.YMD = h.taskUseCase.Today()
	}
	return query
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskUseCase.List(r.Context(), h.dayQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, tasks)
}

func (h *TaskHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.taskUseCase.Summary(r.Context(), h.dayQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, summary)
}

// Create returns every occurrence that was created
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateTaskRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}
	if req.WorkspaceID == "" {
		req.WorkspaceID = r.URL.Query().Get("workspace")
	}

	tasks, err := h.taskUseCase.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskUseCase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, task)
}

func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch domain.TaskPatch
	if !bindJSON(w, r, h.validator, &patch) {
		return
	}

	task, err := h.taskUseCase.Patch(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.taskUseCase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *TaskHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.taskUseCase.DeleteSeries(r.Context(), r.URL.Query().Get("workspace"), mux.Vars(r)["seriesId"])
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, deleteSeriesResponse{Deleted: deleted})
}
