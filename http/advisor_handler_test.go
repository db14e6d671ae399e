package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnboardingHandler_KeepsSession(t *testing.T) {
	router := newTestRouter(t, 100)

	w := postJSON(t, router, "/advisor/onboarding", `{"message": ""}`)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		SessionID  string `json:"session_id"`
		Step       int    `json:"step"`
		TotalSteps int    `json:"total_steps"`
		Complete   bool   `json:"complete"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, 6, first.TotalSteps)

	var last map[string]any
	for _, answer := range []string{"holiday", "3000", "once", "no", "none", "12"} {
		body, err := json.Marshal(map[string]string{"session_id": first.SessionID, "message": answer})
		require.NoError(t, err)
		w = postJSON(t, router, "/advisor/onboarding", string(body))
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	assert.Equal(t, first.SessionID, last["session_id"])
	assert.Equal(t, true, last["complete"])
	assert.Equal(t, "flex", last["recommendation"])
	assert.Contains(t, last, "outcomes")
}

func TestChatHandler_Fallback(t *testing.T) {
	router := newTestRouter(t, 100)

	w := postJSON(t, router, "/advisor/chat", `{"message": "I can invest 5000"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
		History   []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.SessionID)
	assert.Contains(t, reply.Reply, "€375.00")
	require.Len(t, reply.History, 2)
	assert.Equal(t, "user", reply.History[0].Role)
}

func TestAdvisorHandlers_BadBody(t *testing.T) {
	router := newTestRouter(t, 100)

	w := postJSON(t, router, "/advisor/chat", `[1, 2`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/advisor/onboarding", `{"session_id": 5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
