package pipeline

import (
	"context"
	"fmt"
	"time"

	"indexdeploy/jenkins"
)

// Build parameter names the deployment job expects. The job diffs the two
// tags to decide what to reindex and uses the git credentials to read the
// content repository.
const (
	paramNewTag   = "NEW_TAG"
	paramOldTag   = "OLD_TAG"
	paramGitUser  = "GIT_USER"
	paramGitToken = "GIT_TOKEN"
)

// JenkinsDeployer adapts a jenkins.Client to the Deployer interface.
type JenkinsDeployer struct {
	client       *jenkins.Client
	gitUser      string
	gitToken     string
	queueTimeout time.Duration
	buildTimeout time.Duration
}

// NewJenkinsDeployer wires a Jenkins job as the deployment step. The git
// credentials are forwarded to the job as build parameters; either may be
// empty when the job holds its own.
func NewJenkinsDeployer(client *jenkins.Client, gitUser, gitToken string, queueTimeout, buildTimeout time.Duration) *JenkinsDeployer {
	return &JenkinsDeployer{
		client:       client,
		gitUser:      gitUser,
		gitToken:     gitToken,
		queueTimeout: queueTimeout,
		buildTimeout: buildTimeout,
	}
}

var _ Deployer = (*JenkinsDeployer)(nil)

// Deploy triggers the job with the new and previous release tags and waits
// for a passing result. UNSTABLE counts as passing.
func (d *JenkinsDeployer) Deploy(ctx context.Context, newTag, oldTag string) error {
	params := map[string]string{
		paramNewTag: newTag,
		paramOldTag: oldTag,
	}
	if d.gitUser != "" {
		params[paramGitUser] = d.gitUser
	}
	if d.gitToken != "" {
		params[paramGitToken] = d.gitToken
	}

	result, err := d.client.Run(ctx, params, d.queueTimeout, d.buildTimeout)
	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("deployment build finished %s", result)
	}
	return nil
}
