package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quka-ai/course-console/app/core"
	v1 "github.com/quka-ai/course-console/app/logic/v1"
	"github.com/quka-ai/course-console/app/response"
	"github.com/quka-ai/course-console/cmd/service/handler"
	"github.com/quka-ai/course-console/pkg/types"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func backendServer(t *testing.T, mux *http.ServeMux) string {
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Setenv("COURSE_CONSOLE_POLL_INTERVAL_MS", "10")
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestOutlineGenerateWatchCommand(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/outline/generate", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "dropped.md", header.Filename, "a dropped file wins over --file")
		writeJSON(w, http.StatusOK, map[string]string{"task_id": "t1", "status": "pending"})
	})
	mux.HandleFunc("/api/v1/outline/task/t1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 1 {
			writeJSON(w, http.StatusOK, map[string]string{"task_id": "t1", "status": "processing"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"task_id": "t1", "status": "completed", "outline_content": "# X"})
	})
	url := backendServer(t, mux)

	dir := t.TempDir()
	native := filepath.Join(dir, "native.md")
	dropped := filepath.Join(dir, "dropped.md")
	require.NoError(t, os.WriteFile(native, []byte("# native"), 0o644))
	require.NoError(t, os.WriteFile(dropped, []byte("# dropped"), 0o644))

	out, errOut, err := runCommand(t, "--base-url", url,
		"outline", "generate", dropped,
		"--file", native,
		"--course-id", "0001", "--material-id", "000001", "--material-name", "ch8",
		"--watch")
	require.NoError(t, err)
	assert.Contains(t, out, "t1")
	assert.Contains(t, out, "# X")
	assert.Contains(t, errOut, "[t1] processing")
	assert.Contains(t, errOut, "[t1] completed")
}

func TestOutlineWatchCommand_FailedTaskExitsWithError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/outline/task/t9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"task_id": "t9", "status": "failed", "error_message": "quota exceeded"})
	})
	url := backendServer(t, mux)

	out, _, err := runCommand(t, "--base-url", url, "--json", "outline", "watch", "t9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	var task types.OutlineTask
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, types.TASK_STATUS_FAILED, task.Status)
}

func TestMaterialCleanupCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/course-materials/0001/000001", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "false", r.URL.Query().Get("cleanup_rag_data"))
		assert.Equal(t, "true", r.URL.Query().Get("cleanup_files"))
		writeJSON(w, http.StatusOK, types.CleanupResponse{Success: true, Message: "cleaned", FilesDeleted: 2})
	})
	url := backendServer(t, mux)

	out, _, err := runCommand(t, "--base-url", url, "material", "cleanup", "0001", "000001", "--rag-data=false")
	require.NoError(t, err)
	assert.Contains(t, out, "cleaned")
	assert.Contains(t, out, "files_deleted")
}

func TestChatNewIDCommand(t *testing.T) {
	out, _, err := runCommand(t, "chat", "new-id")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chat_"))
}

func TestRunREPL_RejectsWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/conversation/chat", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		writeJSON(w, http.StatusOK, types.ChatResponse{Answer: "first answer", ChatEngineType: types.CHAT_ENGINE_SIMPLE})
	})
	cfg := core.CoreConfig{API: core.APIConfig{BaseURL: backendServer(t, mux)}}
	cfg.ApplyDefaults()
	app := core.MustSetupCore(cfg)
	defer app.Close()

	ctx := context.Background()
	logic := v1.NewChatLogic(ctx, app)
	co := &chatOptions{}
	co.ChatEngineType = types.CHAT_ENGINE_SIMPLE
	co.ensureConversation(io.Discard, logic)

	in, inWriter := io.Pipe()
	var out, errOut bytes.Buffer
	finished := make(chan error, 1)
	go func() {
		finished <- runREPL(ctx, in, &out, &errOut, logic, co)
	}()

	inWriter.Write([]byte("first\n"))
	require.Eventually(t, logic.Processing, time.Second, 5*time.Millisecond)
	inWriter.Write([]byte("second\n"))
	close(release)
	inWriter.Close()

	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("repl did not return")
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, out.String(), "first answer")
	assert.NotEmpty(t, errOut.String(), "the second question is rejected")
}

func TestStatusRouter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/outline/task/t1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"task_id": "t1", "status": "completed"})
	})
	cfg := core.CoreConfig{API: core.APIConfig{BaseURL: backendServer(t, mux)}, Poll: core.PollConfig{IntervalMS: 10}}
	cfg.ApplyDefaults()
	app := core.MustSetupCore(cfg)
	defer app.Close()

	require.NoError(t, app.Store().SaveRecord(context.Background(), types.TaskRecord{
		TaskID: "t1", Kind: types.TASK_KIND_OUTLINE, Status: types.TASK_STATUS_PENDING,
	}))

	s := &handler.HttpSrv{Core: app, Engine: app.HttpEngine(), Ctx: context.Background()}
	setupHttpRouter(s)

	do := func(method, path, body string) (int, response.Response) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
		w := httptest.NewRecorder()
		app.HttpEngine().ServeHTTP(w, req)
		var res response.Response
		json.Unmarshal(w.Body.Bytes(), &res)
		return w.Code, res
	}

	code, res := do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, res.Meta.RequestID)

	code, res = do(http.MethodGet, "/api/v1/sessions/t1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "资源不存在", res.Meta.Message)

	code, _ = do(http.MethodPost, "/api/v1/sessions/t1", `{"kind":"unknown"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(http.MethodPost, "/api/v1/sessions/t1", `{"kind":"outline"}`)
	assert.Equal(t, http.StatusOK, code)

	assert.Eventually(t, func() bool {
		record, err := app.Store().GetRecord(context.Background(), "t1")
		return err == nil && record.Status == types.TASK_STATUS_COMPLETED
	}, 2*time.Second, 10*time.Millisecond)

	code, res = do(http.MethodGet, "/api/v1/sessions", "")
	assert.Equal(t, http.StatusOK, code)
	data, _ := res.Data.(map[string]any)
	assert.EqualValues(t, 1, data["total"])

	code, res = do(http.MethodGet, "/api/v1/records?kind=outline&limit=5", "")
	assert.Equal(t, http.StatusOK, code)
	data, _ = res.Data.(map[string]any)
	assert.EqualValues(t, 1, data["total"])

	code, _ = do(http.MethodGet, "/api/v1/records/missing", "")
	assert.Equal(t, http.StatusNotFound, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	app.HttpEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "course_console_core_poll")
}
