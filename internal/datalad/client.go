package datalad

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout []byte, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps datalad and git CLI interactions.
type Client struct {
	binary    string
	gitBinary string
	timeout   time.Duration
	exec      Executor
}

// New constructs a datalad client.
func New(binary, gitBinary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("datalad binary required")
	}
	gitBinary = strings.TrimSpace(gitBinary)
	if gitBinary == "" {
		gitBinary = "git"
	}
	client := &Client{
		binary:    binary,
		gitBinary: gitBinary,
		timeout:   time.Duration(timeoutSeconds) * time.Second,
		exec:      commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CatalogAdd registers one metadata item with the catalog at catalogDir.
// configFile may be empty to use the catalog's own defaults.
func (c *Client) CatalogAdd(ctx context.Context, catalogDir, metadataJSON, configFile string) error {
	args := []string{"catalog-add", "--catalog", catalogDir, "--metadata", metadataJSON}
	if configFile != "" {
		args = append(args, "--config-file", configFile)
	}
	_, err := c.run(ctx, c.binary, args)
	if err != nil {
		return fmt.Errorf("catalog-add: %w", err)
	}
	return nil
}

// CatalogSet marks the given dataset version as the catalog's home page,
// overwriting any previous home setting.
func (c *Client) CatalogSet(ctx context.Context, catalogDir, datasetID, datasetVersion string) error {
	args := []string{
		"catalog-set",
		"--catalog", catalogDir,
		"--dataset-id", datasetID,
		"--dataset-version", datasetVersion,
		"--reckless", "overwrite",
		"home",
	}
	_, err := c.run(ctx, c.binary, args)
	if err != nil {
		return fmt.Errorf("catalog-set home: %w", err)
	}
	return nil
}

// Save records a commit of the dataset at datasetPath. Pushing to the remote
// stays a manual follow-up step.
func (c *Client) Save(ctx context.Context, datasetPath, message string) error {
	args := []string{"save", "--dataset", datasetPath, "--message", message, "--to-git"}
	_, err := c.run(ctx, c.binary, args)
	if err != nil {
		return fmt.Errorf("save %s: %w", datasetPath, err)
	}
	return nil
}

// DatasetID reads the registered datalad dataset identifier of the dataset
// rooted at datasetPath.
func (c *Client) DatasetID(ctx context.Context, datasetPath string) (string, error) {
	configPath := filepath.Join(datasetPath, ".datalad", "config")
	out, err := c.run(ctx, c.gitBinary, []string{"config", "--file", configPath, "datalad.dataset.id"})
	if err != nil {
		return "", fmt.Errorf("read dataset id of %s: %w", datasetPath, err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("dataset %s has no datalad.dataset.id", datasetPath)
	}
	return id, nil
}

// HeadVersion returns the commit hash of the dataset's current HEAD, which
// serves as the dataset version in catalog entries.
func (c *Client) HeadVersion(ctx context.Context, datasetPath string) (string, error) {
	out, err := c.run(ctx, c.gitBinary, []string{"-C", datasetPath, "rev-parse", "HEAD"})
	if err != nil {
		return "", fmt.Errorf("resolve HEAD of %s: %w", datasetPath, err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", fmt.Errorf("dataset %s has no HEAD commit", datasetPath)
	}
	return version, nil
}

func (c *Client) run(ctx context.Context, binary string, args []string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.exec.Run(ctx, binary, args)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, detail)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}
