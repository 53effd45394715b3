// Package tests exercises the HTTP API end to end through Server.ServeHTTP.
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/studyplanner/apps/api/echo"
	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/core/report"
	"github.com/trezcool/studyplanner/core/tip"
	emailsvc "github.com/trezcool/studyplanner/services/email"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	testutil "github.com/trezcool/studyplanner/tests"
)

type (
	testApp struct {
		server  *echoapi.Server
		repo    entry.Repository
		mailSvc *emailsvc.ConsoleService
		logger  *recordingLogger
	}

	appOption func(*appDeps)

	appDeps struct {
		repo    entry.Repository
		mailSvc core.EmailService
	}
)

func withRepo(wrap func(entry.Repository) entry.Repository) appOption {
	return func(d *appDeps) { d.repo = wrap(d.repo) }
}

func withMailer(m core.EmailService) appOption {
	return func(d *appDeps) { d.mailSvc = m }
}

func setup(t *testing.T, opts ...appOption) *testApp {
	conf := testutil.NewTestConfig()

	repo := inmem.NewEntryRepository(inmem.Open())
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	deps := appDeps{repo: repo, mailSvc: mailSvc}
	for _, opt := range opts {
		opt(&deps)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	entry.InitValidators(validate, translator)

	logger := new(recordingLogger)
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		EntrySvc:   entry.NewService(deps.repo),
		ReportSvc:  report.NewService(deps.repo, staticTips(tip.SeedTips), deps.mailSvc, conf),
		Validate:   validate,
		Translator: translator,
	})
	return &testApp{server: server, repo: repo, mailSvc: mailSvc, logger: logger}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

type staticTips []string

func (t staticTips) ListTips(context.Context) ([]string, error) { return t, nil }

// failingRepo fails every read.
type failingRepo struct {
	entry.Repository
}

var errStoreDown = errors.New("store is down")

func (failingRepo) QueryEntries(context.Context, *entry.QueryFilter, []core.DBOrdering) ([]entry.StudyEntry, error) {
	return nil, errStoreDown
}

type failingMailer struct{}

func (failingMailer) SendMessages(context.Context, ...*core.EmailMessage) error {
	return errors.New("dial tcp 127.0.0.1:25: connect: connection refused")
}

type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Fatal(msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}

type httpErr struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	return marshallObj(t, objs)
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "status code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(newRequest(tt.method, tt.path, tt.body)))
		})
	}
}
