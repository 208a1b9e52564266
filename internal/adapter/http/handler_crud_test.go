package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/infrastructure/http/response"
	"github.com/deskpulse/deskpulse/internal/domain"
)

func TestBIHandler_Lifecycle(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodPost, "/api/bis", `{
		"nome": "Vendas",
		"responsavel": "Ana",
		"bases": [{"nomeFerramenta": "SAP"}, {"nomeFerramenta": "CRM", "temApi": true}]
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	bi := decode[domain.BI](t, rr)
	assert.Equal(t, domain.BIStatusOpen, bi.Status)
	require.Len(t, bi.Bases, 2)

	rr = do(t, h, http.MethodPatch, "/api/bis/"+bi.ID, `{"operacao":"Varejo"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Varejo", decode[domain.BI](t, rr).Operacao)

	rr = do(t, h, http.MethodPatch, "/api/bis/"+bi.ID+"/inativar", `{"inativo":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[domain.BI](t, rr).Inativo)

	for _, base := range bi.Bases {
		rr = do(t, h, http.MethodPatch, "/api/bases/"+base.ID+"/status", `{"status":"concluido","biId":"`+bi.ID+`"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	assert.Equal(t, domain.BIStatusDone, decode[domain.BI](t, rr).Status)

	rr = do(t, h, http.MethodGet, "/api/bis", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.BI](t, rr), 1)

	rr = do(t, h, http.MethodDelete, "/api/bis/"+bi.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/bis/"+bi.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"BI not found"}`, rr.Body.String())
}

func TestBIHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		body          string
		expectedError string
	}{
		{"malformed body", http.MethodPost, "/api/bis", `{"nome":`, "Invalid request body"},
		{"empty body", http.MethodPost, "/api/bis", "", "Invalid request body"},
		{"missing nome", http.MethodPost, "/api/bis", `{"responsavel":"Ana"}`, "Invalid request"},
		{"bad base status", http.MethodPost, "/api/bis", `{"nome":"x","bases":[{"nomeFerramenta":"a","status":"feito"}]}`, "Invalid request"},
		{"inativar without flag", http.MethodPatch, "/api/bis/x/inativar", `{}`, "Invalid request"},
		{"unknown base status", http.MethodPatch, "/api/bases/x/status", `{"status":"feito"}`, "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &stubSource{})

			rr := do(t, h, tt.method, tt.path, tt.body)

			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, tt.expectedError, decode[response.ErrorBody](t, rr).Error)
		})
	}
}

func TestBIHandler_UnknownBase(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodPatch, "/api/bases/missing/status", `{"status":"concluido"}`)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Base not found"}`, rr.Body.String())
}

func TestAutomationHandler_Lifecycle(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodPost, "/api/automacoes", `{
		"nomeIntegracao": "Carga ERP",
		"recorrencia": "Semanal",
		"dataHora": "2024-01-01T08:30",
		"nomeExecutavel": "carga.exe"
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	a := decode[domain.Automation](t, rr)
	require.NotNil(t, a.ProximaExecucao)
	assert.Equal(t, "2024-03-04T08:30:00Z", a.ProximaExecucao.UTC().Format("2006-01-02T15:04:05Z07:00"))

	rr = do(t, h, http.MethodPatch, "/api/automacoes/"+a.ID, `{"recorrencia":"Trimestral"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPatch, "/api/automacoes/"+a.ID, `{"repetirUmaHora":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[domain.Automation](t, rr).RepetirUmaHora)

	rr = do(t, h, http.MethodGet, "/api/automacoes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Automation](t, rr), 1)

	rr = do(t, h, http.MethodDelete, "/api/automacoes/"+a.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/automacoes/"+a.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodPost, "/api/tasks?workspace=ops", `{
		"titulo": "Conferir cargas",
		"inicio": "09:00",
		"fim": "10:00",
		"responsavel": "Ana",
		"ymd": "2024-03-02",
		"recKind": "daily"
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[[]domain.Task](t, rr)
	require.Len(t, created, domain.DailyHorizonDays)
	assert.Equal(t, "ops", created[0].WorkspaceID)

	rr = do(t, h, http.MethodGet, "/api/tasks?workspace=ops", "")
	require.Equal(t, http.StatusOK, rr.Code)
	today := decode[[]domain.Task](t, rr)
	require.Len(t, today, 1)
	assert.Equal(t, "2024-03-02", today[0].YMD)

	rr = do(t, h, http.MethodGet, "/api/tasks/summary?workspace=ops&date=2024-03-02", "")
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decode[domain.TaskSummary](t, rr)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Atrasada)

	rr = do(t, h, http.MethodPatch, "/api/tasks/"+created[0].ID, `{"concluida":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[domain.Task](t, rr).Concluida)

	rr = do(t, h, http.MethodDelete, "/api/tasks/"+created[0].ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodDelete, "/api/tasks/series/"+created[1].SeriesID+"?workspace=ops", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":29}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/api/tasks/"+created[1].ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskHandler_Validation(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodPost, "/api/tasks", `{"titulo":"x","inicio":"09:00","fim":"10:00","ymd":"2024-03-02","recKind":"monthly"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/tasks", `{"titulo":"x","inicio":"9","fim":"10:00","ymd":"2024-03-02"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid inicio: \"9\""}`, rr.Body.String())
}

func TestCanvasHandler_ReplaceAll(t *testing.T) {
	h := newTestRouter(t, &stubSource{})

	rr := do(t, h, http.MethodGet, "/api/canvas", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/canvas", `{
		"nodes": [{"id":"n1","positionX":"10","positionY":"20","data":{"label":"Vendas"}}],
		"edges": [{"id":"e1","source":"n1","target":"n1"}]
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"nodes": [{"id":"n1","type":"default","positionX":"10","positionY":"20","data":{"label":"Vendas"}}],
		"edges": [{"id":"e1","source":"n1","target":"n1","type":"smoothstep","animated":false}]
	}`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/api/canvas", `{"nodes":[],"edges":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/canvas", "")
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, rr.Body.String())
}
