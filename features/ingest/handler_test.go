package ingest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitedex/features/ingest"
	"sitedex/internal/pipeline"
)

type MockRunner struct{ mock.Mock }

func (m *MockRunner) Run(ctx context.Context) (*pipeline.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Report), args.Error(1)
}

func TestHandler_Trigger(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("Run", mock.Anything).Return(&pipeline.Report{
			ChunksTotal:    12,
			ChunksUploaded: 10,
			PagesProcessed: 2,
			IndexName:      "docs",
			Status:         pipeline.StatusPartial,
		}, nil)

		h := ingest.NewHandler(runner)
		rec := httptest.NewRecorder()
		h.Trigger(rec, httptest.NewRequest("POST", "/ingest", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body struct {
			pipeline.Report
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 12, body.ChunksTotal)
		assert.Equal(t, 10, body.ChunksUploaded)
		assert.Equal(t, pipeline.StatusPartial, body.Status)
		assert.Equal(t, "Uploaded 10 of 12 chunks from 2 pages to index 'docs'", body.Message)
		runner.AssertExpectations(t)
	})

	t.Run("Fetch Failure", func(t *testing.T) {
		runner := new(MockRunner)
		runner.On("Run", mock.Anything).Return(nil, assert.AnError)

		h := ingest.NewHandler(runner)
		rec := httptest.NewRecorder()
		h.Trigger(rec, httptest.NewRequest("POST", "/ingest", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "error")
		runner.AssertExpectations(t)
	})
}
