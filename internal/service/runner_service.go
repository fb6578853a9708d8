package service

import (
	"bytes"
	"code_quest_backend/internal/config"
	"code_quest_backend/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RunResult 执行服务返回的原始输出
type RunResult struct {
	Stdout string
	Stderr string
}

// RunnerService 远程代码执行服务（Piston）的客户端。
// 语言到版本的映射在构造时注入，之后只读
type RunnerService struct {
	baseURL  string
	runtimes map[string]config.Runtime
	client   *http.Client
}

func NewRunnerService(cfg config.PistonConfig) *RunnerService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}

	runtimes := make(map[string]config.Runtime, len(cfg.Runtimes))
	for name, rt := range cfg.Runtimes {
		runtimes[strings.ToLower(name)] = rt
	}

	return &RunnerService{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		runtimes: runtimes,
		client:   &http.Client{Timeout: timeout},
	}
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type pistonResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	} `json:"run"`
}

// Supports 判断语言是否在运行时映射表里
func (s *RunnerService) Supports(language string) bool {
	_, ok := s.runtimes[strings.ToLower(language)]
	return ok
}

// Execute 把 (language, code, stdin) 提交给执行服务并返回捕获的输出。
// 不支持的语言在发起调用前拒绝；网络或服务故障统一映射为
// util.ErrExecutionService，由上层整体中止本次评测
func (s *RunnerService) Execute(ctx context.Context, language, code, stdin string) (*RunResult, error) {
	rt, ok := s.runtimes[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", language, util.ErrUnsupportedLanguage)
	}

	reqBody := pistonRequest{
		Language: rt.Language,
		Version:  rt.Version,
		Files:    []pistonFile{{Content: code}},
		Stdin:    stdin,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/execute", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrExecutionService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrExecutionService, resp.StatusCode, string(body))
	}

	var result pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrExecutionService, err)
	}

	return &RunResult{
		Stdout: result.Run.Stdout,
		Stderr: result.Run.Stderr,
	}, nil
}
