package server

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvSecret       = "GRAMMARFAB_SECRET"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServerConfigMarshall struct {
	Server           *HTTPConfigMarshall       `yaml:"server"`
	Database         string                    `yaml:"database"`
	SchemaRepository string                    `yaml:"schemaRepository,omitempty"`
	Auth             *AuthConfigMarshall       `yaml:"auth"`
	Revocation       *RevocationConfigMarshall `yaml:"revocation,omitempty"`
	RateLimit        *RateLimitConfigMarshall  `yaml:"rateLimit,omitempty"`
	Correction       *CorrectionConfigMarshall `yaml:"correction,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	return &ServerConfig{
		server:           orEmpty(s.Server).trySeal(path + ".server"),
		database:         required(s.Database, path+".database"),
		schemaRepository: s.SchemaRepository,
		auth:             orEmpty(s.Auth).trySeal(path + ".auth"),
		revocation:       orEmpty(s.Revocation).trySeal(path + ".revocation"),
		rateLimit:        orEmpty(s.RateLimit).trySeal(path + ".rateLimit"),
		correction:       orEmpty(s.Correction).trySeal(path + ".correction"),
	}
}

type HTTPConfigMarshall struct {
	Port          string `yaml:"port,omitempty"`
	MaxTextLength int    `yaml:"maxTextLength,omitempty"`
	BatchLimit    int    `yaml:"batchLimit,omitempty"`
}

func (h *HTTPConfigMarshall) trySeal(path string) *HTTPConfig {
	return &HTTPConfig{
		port:          withDefault(h.Port, "8080"),
		maxTextLength: positive(withDefault(h.MaxTextLength, 5000), path+".maxTextLength"),
		batchLimit:    positive(withDefault(h.BatchLimit, 16), path+".batchLimit"),
	}
}

type AuthConfigMarshall struct {
	// HMAC key. When empty, $GRAMMARFAB_SECRET is used.
	Secret            string `yaml:"secret,omitempty"`
	Issuer            string `yaml:"issuer,omitempty"`
	Audience          string `yaml:"audience,omitempty"`
	TokenTTL          string `yaml:"tokenTTL,omitempty"`
	MinPasswordLength int    `yaml:"minPasswordLength,omitempty"`
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	secret := withDefault(a.Secret, os.Getenv(EnvSecret))
	return &AuthConfig{
		secret:            []byte(required(secret, path+".secret (or $"+EnvSecret+")")),
		issuer:            withDefault(a.Issuer, "grammar-correction-api"),
		audience:          withDefault(a.Audience, "grammar-correction-users"),
		tokenTTL:          duration(withDefault(a.TokenTTL, "15m"), path+".tokenTTL"),
		minPasswordLength: positive(withDefault(a.MinPasswordLength, 8), path+".minPasswordLength"),
	}
}

type RevocationConfigMarshall struct {
	Redis         *RedisConfigMarshall `yaml:"redis,omitempty"`
	SweepInterval string               `yaml:"sweepInterval,omitempty"`
}

func (r *RevocationConfigMarshall) trySeal(path string) *RevocationConfig {
	var redis *RedisConfig
	if r.Redis != nil {
		redis = r.Redis.trySeal(path + ".redis")
	}
	return &RevocationConfig{
		redis:         redis,
		sweepInterval: duration(withDefault(r.SweepInterval, "1h"), path+".sweepInterval"),
	}
}

type RedisConfigMarshall struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

func (r *RedisConfigMarshall) trySeal(path string) *RedisConfig {
	return &RedisConfig{
		addr:     required(r.Addr, path+".addr"),
		password: r.Password,
		db:       r.DB,
		prefix:   withDefault(r.Prefix, "grammarfab:revoked:"),
	}
}

type RateLimitConfigMarshall struct {
	RPS     *float64 `yaml:"rps,omitempty"`
	Burst   int      `yaml:"burst,omitempty"`
	IdleTTL string   `yaml:"idleTTL,omitempty"`
}

func (r *RateLimitConfigMarshall) trySeal(path string) *RateLimitConfig {
	rps := 2.0
	if r.RPS != nil {
		rps = *r.RPS
	}
	return &RateLimitConfig{
		rps:     rps,
		burst:   positive(withDefault(r.Burst, 10), path+".burst"),
		idleTTL: duration(withDefault(r.IdleTTL, "15m"), path+".idleTTL"),
	}
}

type CorrectionConfigMarshall struct {
	Rules string               `yaml:"rules,omitempty"`
	Model *ModelConfigMarshall `yaml:"model,omitempty"`
}

func (c *CorrectionConfigMarshall) trySeal(path string) *CorrectionConfig {
	return &CorrectionConfig{
		rules: c.Rules,
		model: orEmpty(c.Model).trySeal(path + ".model"),
	}
}

type ModelConfigMarshall struct {
	Provider string                `yaml:"provider,omitempty"`
	Timeout  string                `yaml:"timeout,omitempty"`
	HF       *HFConfigMarshall     `yaml:"hf,omitempty"`
	Gemini   *GeminiConfigMarshall `yaml:"gemini,omitempty"`
}

func (m *ModelConfigMarshall) trySeal(path string) *ModelConfig {
	conf := &ModelConfig{
		provider: withDefault(m.Provider, ProviderNone),
		timeout:  duration(withDefault(m.Timeout, "30s"), path+".timeout"),
	}
	switch conf.provider {
	case ProviderNone:
	case ProviderHF:
		conf.hf = nonnil(m.HF, path+".hf").trySeal(path + ".hf")
	case ProviderGemini:
		conf.gemini = orEmpty(m.Gemini).trySeal(path + ".gemini")
	default:
		panic(fmt.Sprintf(
			"%s.provider should be one of %s, %s or %s, but %q",
			path, ProviderNone, ProviderHF, ProviderGemini, conf.provider,
		))
	}
	return conf
}

type HFConfigMarshall struct {
	Endpoint          string   `yaml:"endpoint"`
	Token             string   `yaml:"token,omitempty"`
	MaxNewTokens      int      `yaml:"maxNewTokens,omitempty"`
	Temperature       *float64 `yaml:"temperature,omitempty"`
	TopP              *float64 `yaml:"topP,omitempty"`
	RepetitionPenalty *float64 `yaml:"repetitionPenalty,omitempty"`
	DoSample          bool     `yaml:"doSample,omitempty"`
}

func (h *HFConfigMarshall) trySeal(path string) *HFConfig {
	return &HFConfig{
		endpoint:          required(h.Endpoint, path+".endpoint"),
		token:             h.Token,
		maxNewTokens:      positive(withDefault(h.MaxNewTokens, 512), path+".maxNewTokens"),
		temperature:       deref(h.Temperature, 0.1),
		topP:              deref(h.TopP, 0.9),
		repetitionPenalty: deref(h.RepetitionPenalty, 1.1),
		doSample:          h.DoSample,
	}
}

type GeminiConfigMarshall struct {
	// When empty, $GEMINI_API_KEY is used.
	APIKey      string   `yaml:"apiKey,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

func (g *GeminiConfigMarshall) trySeal(path string) *GeminiConfig {
	apiKey := withDefault(g.APIKey, os.Getenv(EnvGeminiAPIKey))
	return &GeminiConfig{
		apiKey:      required(apiKey, path+".apiKey (or $"+EnvGeminiAPIKey+")"),
		model:       withDefault(g.Model, "gemini-2.0-flash"),
		temperature: deref(g.Temperature, 0.1),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

// orEmpty returns v, or zero value of T when v is nil.
//
// Use this for sections which can be omitted entirely.
func orEmpty[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}

func withDefault[T comparable](v T, def T) T {
	if v == *new(T) {
		return def
	}
	return v
}

func deref[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func positive(v int, path string) int {
	if v <= 0 {
		panic(fmt.Sprintf("%s should be positive, but %d", path, v))
	}
	return v
}

func duration(v string, path string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Sprintf("%s is not a duration: %s", path, err))
	}
	if d <= 0 {
		panic(fmt.Sprintf("%s should be positive, but %s", path, v))
	}
	return d
}
