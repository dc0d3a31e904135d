package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/okrause/elaborate/internal/service/assistant"
	"github.com/okrause/elaborate/internal/service/caption"
	"github.com/okrause/elaborate/internal/service/gesture"
	"github.com/okrause/elaborate/internal/service/prompt"
)

// Config aggregates every setting the service consumes. All values have
// hardcoded defaults; a missing variable is never fatal.
type Config struct {
	Server    ServerConfig
	Caption   CaptionConfig
	Gesture   GestureConfig
	Assistant AssistantConfig
	Prompts   PromptConfig
	Overlay   OverlayConfig
	AI        AIConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	captionCfg, err := loadCaptionConfig()
	if err != nil {
		return nil, err
	}

	assistantCfg, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	overlay, err := loadOverlayConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Caption:   captionCfg,
		Gesture:   loadGestureConfig(),
		Assistant: assistantCfg,
		Prompts:   loadPromptConfig(),
		Overlay:   overlay,
		AI:        ai,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CaptionConfig bounds the caption buffer and the derived transcript.
type CaptionConfig struct {
	Retention    time.Duration
	PollInterval time.Duration
	MaxChars     int
}

func loadCaptionConfig() (CaptionConfig, error) {
	retentionMs, err := parseOptionalIntEnv("CAPTION_RETENTION_MS")
	if err != nil {
		return CaptionConfig{}, err
	}
	retention := caption.DefaultRetention
	if retentionMs != nil && *retentionMs > 0 {
		retention = time.Duration(*retentionMs) * time.Millisecond
	}

	pollMs, err := parseOptionalIntEnv("CAPTION_POLL_INTERVAL_MS")
	if err != nil {
		return CaptionConfig{}, err
	}
	poll := caption.DefaultPollInterval
	if pollMs != nil && *pollMs > 0 {
		poll = time.Duration(*pollMs) * time.Millisecond
	}

	maxChars, err := parseOptionalIntEnv("CAPTION_MAX_CHARS")
	if err != nil {
		return CaptionConfig{}, err
	}
	chars := caption.DefaultMaxChars
	if maxChars != nil && *maxChars > 0 {
		chars = *maxChars
	}

	// A word budget wins over the character budget, converted by the crude
	// words-to-chars heuristic.
	maxWords, err := parseOptionalIntEnv("CAPTION_MAX_WORDS")
	if err != nil {
		return CaptionConfig{}, err
	}
	if maxWords != nil && *maxWords > 0 {
		chars = *maxWords * caption.CharsPerWord
	}

	return CaptionConfig{Retention: retention, PollInterval: poll, MaxChars: chars}, nil
}

// GestureConfig describes the two trigger conditions.
type GestureConfig struct {
	Shortcut     string
	DoubleTapKey string
}

func loadGestureConfig() GestureConfig {
	return GestureConfig{
		Shortcut:     getEnvOrDefault("GESTURE_SHORTCUT", "ctrl+shift+space"),
		DoubleTapKey: getEnvOrDefault("GESTURE_DOUBLE_TAP_KEY", gesture.DefaultDoubleTapKey),
	}
}

// AssistantConfig points the capture engine at a completion endpoint, which
// may be this process or a remote instance.
type AssistantConfig struct {
	URL     string
	Timeout time.Duration
}

func loadAssistantConfig() (AssistantConfig, error) {
	timeoutMs, err := parseOptionalIntEnv("ASSISTANT_TIMEOUT_MS")
	if err != nil {
		return AssistantConfig{}, err
	}
	// Zero keeps requests open until the remote answers.
	timeout := time.Duration(0)
	if timeoutMs != nil && *timeoutMs > 0 {
		timeout = time.Duration(*timeoutMs) * time.Millisecond
	}

	return AssistantConfig{
		URL:     getEnvOrDefault("ASSISTANT_URL", assistant.DefaultURL),
		Timeout: timeout,
	}, nil
}

// PromptConfig carries the system prompt templates.
type PromptConfig struct {
	Initial  string
	Followup string
}

func loadPromptConfig() PromptConfig {
	return PromptConfig{
		Initial:  getEnvOrDefault("PROMPT_INITIAL", prompt.DefaultInitial),
		Followup: getEnvOrDefault("PROMPT_FOLLOWUP", prompt.DefaultFollowup),
	}
}

// OverlayConfig holds the presentation choices the conversation controller
// consumes.
type OverlayConfig struct {
	ShowBanner     bool
	PersistSession bool
}

func loadOverlayConfig() (OverlayConfig, error) {
	showBanner, err := parseBoolEnv("OVERLAY_SHOW_BANNER", true)
	if err != nil {
		return OverlayConfig{}, err
	}

	persist, err := parseBoolEnv("SESSION_PERSIST", false)
	if err != nil {
		return OverlayConfig{}, err
	}

	return OverlayConfig{ShowBanner: showBanner, PersistSession: persist}, nil
}

// AIConfig describes the chat model behind the ask endpoint.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY and ARK_MODEL, or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
