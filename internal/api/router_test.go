package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"titanic/internal/data"
	"titanic/internal/models"
	"titanic/internal/pipeline"
)

const trainCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley (Florence Briggs Thayer)",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,26,0,0,STON/O2. 3101282,7.925,,S
4,1,1,"Futrelle, Mrs. Jacques Heath (Lily May Peel)",female,35,1,0,113803,53.1,C123,S
5,0,3,"Allen, Mr. William Henry",male,35,0,0,373450,8.05,,S
`

func trainedArtifact(t *testing.T) *models.Artifact {
	t.Helper()
	raw, err := data.ParseCSV(strings.NewReader(trainCSV))
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.DefaultTrainOptions()
	opts.NEstimators = 10
	res, err := pipeline.Train(raw, opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return res.Artifact
}

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(trainedArtifact(t), opts, zaptest.NewLogger(t))
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	w := do(newTestRouter(t, Options{}), http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ping = %d", w.Code)
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatalf("missing request id header")
	}
	gin.SetMode(gin.TestMode)
	empty := NewRouter(nil, Options{}, zaptest.NewLogger(t))
	if w := do(empty, http.MethodGet, "/ping", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("ping without model = %d", w.Code)
	}
}

func TestInvocationsBatchWithHeader(t *testing.T) {
	w := do(newTestRouter(t, Options{}), http.MethodPost, "/invocations", trainCSV, map[string]string{"Content-Type": "text/csv"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	tbl, err := data.ParseCSV(strings.NewReader(w.Body.String()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(tbl.Header, ",") != "PassengerId,Survived" || tbl.Len() != 5 {
		t.Fatalf("unexpected response: %q", w.Body.String())
	}
}

func TestInvocationsSingleRecord(t *testing.T) {
	r := newTestRouter(t, Options{UseTrainingStats: true})
	line := "892,3,\"Kelly, Mr. James\",male,,0,0,330911,7.8292,,Q\n"
	w := do(r, http.MethodPost, "/invocations", line, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := w.Body.String()
	if got != "892,0\n" && got != "892,1\n" {
		t.Fatalf("unexpected record response %q", got)
	}

	header := "PassengerId,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n"
	w = do(r, http.MethodPost, "/invocations", header, nil)
	if w.Code != http.StatusOK || w.Body.String() != "PassengerId,Survived\n" {
		t.Fatalf("header-only request: %d %q", w.Code, w.Body.String())
	}
}

func TestInvocationsRejectsMalformed(t *testing.T) {
	w := do(newTestRouter(t, Options{}), http.MethodPost, "/invocations", "1,2,3\n", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAPIKey(t *testing.T) {
	r := newTestRouter(t, Options{APIKey: "secret"})
	if w := do(r, http.MethodPost, "/invocations", trainCSV, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without key = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/invocations", trainCSV, map[string]string{HeaderAPIKey: "secret"}); w.Code != http.StatusOK {
		t.Fatalf("with key = %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/ping", "", nil); w.Code != http.StatusOK {
		t.Fatalf("ping must not require the key, got %d", w.Code)
	}
}

func TestPredictJSON(t *testing.T) {
	r := newTestRouter(t, Options{})
	body := `[{"PassengerId":892,"Pclass":3,"Name":"Kelly, Mr. James","Sex":"male","Age":34.5,"SibSp":0,"Parch":0,"Ticket":"330911","Fare":7.8292,"Cabin":"","Embarked":"Q"},
{"PassengerId":893,"Pclass":1,"Name":"Wilkes, Mrs. James","Sex":"female","Age":47,"SibSp":1,"Parch":0,"Ticket":"363272","Fare":70,"Cabin":"C7","Embarked":"S"}]`
	w := do(r, http.MethodPost, "/predict", body, map[string]string{"Content-Type": "application/json", HeaderRequestID: "req-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		RequestID   string       `json:"request_id"`
		Predictions []prediction `json:"predictions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RequestID != "req-1" || len(resp.Predictions) != 2 || resp.Predictions[1].PassengerID != "893" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPredictJSONValidation(t *testing.T) {
	r := newTestRouter(t, Options{})
	body := `[{"PassengerId":1,"Pclass":3,"Sex":"robot","Age":30,"Fare":7,"Embarked":"S"}]`
	if w := do(r, http.MethodPost, "/predict", body, map[string]string{"Content-Type": "application/json"}); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), zaptest.NewLogger(t)) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not stop")
	}
}
