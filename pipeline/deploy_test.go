package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdeploy/jenkins"
)

// deployJob is a fake Jenkins job that records the trigger parameters and
// walks the queue-then-build lifecycle to the given result.
type deployJob struct {
	server *httptest.Server
	form   url.Values
	result string
}

func newDeployJob(t *testing.T, result string) (*deployJob, *jenkins.Client) {
	t.Helper()

	job := &deployJob{result: result}
	mux := http.NewServeMux()
	mux.HandleFunc("/job/deploy-index/buildWithParameters", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		job.form = r.PostForm
		w.Header().Set("Location", job.server.URL+"/queue/item/7/")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/queue/item/7/api/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"executable":{"url":%q}}`, job.server.URL+"/job/deploy-index/42/")
	})
	mux.HandleFunc("/job/deploy-index/42/api/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result":%q}`, job.result)
	})
	job.server = httptest.NewServer(mux)
	t.Cleanup(job.server.Close)

	client, err := jenkins.NewClient(job.server.URL, "job/deploy-index", "ci", "api-token",
		jenkins.WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	return job, client
}

func TestJenkinsDeployer_PassesTagAndCredentialParams(t *testing.T) {
	job, client := newDeployJob(t, "SUCCESS")
	deployer := NewJenkinsDeployer(client, "git-bot", "git-secret", time.Second, time.Second)

	require.NoError(t, deployer.Deploy(context.Background(), "003-20250201", "002-20250101"))

	assert.Equal(t, "003-20250201", job.form.Get("NEW_TAG"))
	assert.Equal(t, "002-20250101", job.form.Get("OLD_TAG"))
	assert.Equal(t, "git-bot", job.form.Get("GIT_USER"))
	assert.Equal(t, "git-secret", job.form.Get("GIT_TOKEN"))
}

func TestJenkinsDeployer_FirstReleaseAndJobOwnedCredentials(t *testing.T) {
	job, client := newDeployJob(t, "UNSTABLE")
	deployer := NewJenkinsDeployer(client, "", "", time.Second, time.Second)

	require.NoError(t, deployer.Deploy(context.Background(), "001-20250201", ""))

	assert.Equal(t, "001-20250201", job.form.Get("NEW_TAG"))
	assert.True(t, job.form.Has("OLD_TAG"), "old tag is sent even when empty")
	assert.Empty(t, job.form.Get("OLD_TAG"))
	assert.False(t, job.form.Has("GIT_USER"), "credential params stay out of the trigger when unset")
	assert.False(t, job.form.Has("GIT_TOKEN"))
}

func TestJenkinsDeployer_FailedBuildIsError(t *testing.T) {
	_, client := newDeployJob(t, "FAILURE")
	deployer := NewJenkinsDeployer(client, "git-bot", "git-secret", time.Second, time.Second)

	err := deployer.Deploy(context.Background(), "003-20250201", "002-20250101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILURE")
}
