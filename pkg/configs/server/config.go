package server

import "time"

// ServerConfig is read-only configuration for grammard and grammarctl.
//
// To get ServerConfig instance, use Unmarshal or LoadServerConfig.
type ServerConfig struct {
	server           *HTTPConfig
	database         string
	schemaRepository string
	auth             *AuthConfig
	revocation       *RevocationConfig
	rateLimit        *RateLimitConfig
	correction       *CorrectionConfig
}

func (c *ServerConfig) Server() *HTTPConfig {
	return c.server
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

// Directory where schema definitions are placed.
//
// Empty when not configured.
func (c *ServerConfig) SchemaRepository() string {
	return c.schemaRepository
}

func (c *ServerConfig) Auth() *AuthConfig {
	return c.auth
}

func (c *ServerConfig) Revocation() *RevocationConfig {
	return c.revocation
}

func (c *ServerConfig) RateLimit() *RateLimitConfig {
	return c.rateLimit
}

func (c *ServerConfig) Correction() *CorrectionConfig {
	return c.correction
}

type HTTPConfig struct {
	port          string
	maxTextLength int
	batchLimit    int
}

// port to listen. default = "8080"
func (h *HTTPConfig) Port() string {
	return h.port
}

// max length (in runes) of a text to be corrected. default = 5000
func (h *HTTPConfig) MaxTextLength() int {
	return h.maxTextLength
}

// max number of texts corrected concurrently in a batch. default = 16
func (h *HTTPConfig) BatchLimit() int {
	return h.batchLimit
}

type AuthConfig struct {
	secret            []byte
	issuer            string
	audience          string
	tokenTTL          time.Duration
	minPasswordLength int
}

// HMAC key to sign access tokens.
func (a *AuthConfig) Secret() []byte {
	return a.secret
}

func (a *AuthConfig) Issuer() string {
	return a.issuer
}

func (a *AuthConfig) Audience() string {
	return a.audience
}

// lifetime of access tokens. default = 15m
func (a *AuthConfig) TokenTTL() time.Duration {
	return a.tokenTTL
}

func (a *AuthConfig) MinPasswordLength() int {
	return a.minPasswordLength
}

type RevocationConfig struct {
	redis         *RedisConfig
	sweepInterval time.Duration
}

// Redis to store revocations.
//
// nil means revocations are stored in the database.
func (r *RevocationConfig) Redis() *RedisConfig {
	return r.redis
}

func (r *RevocationConfig) SweepInterval() time.Duration {
	return r.sweepInterval
}

type RedisConfig struct {
	addr     string
	password string
	db       int
	prefix   string
}

func (r *RedisConfig) Addr() string {
	return r.addr
}

func (r *RedisConfig) Password() string {
	return r.password
}

func (r *RedisConfig) DB() int {
	return r.db
}

// prefix of redis keys. default = "grammarfab:revoked:"
func (r *RedisConfig) Prefix() string {
	return r.prefix
}

type RateLimitConfig struct {
	rps     float64
	burst   int
	idleTTL time.Duration
}

// requests per second per client. Zero or negative disables rate limiting.
func (r *RateLimitConfig) RPS() float64 {
	return r.rps
}

func (r *RateLimitConfig) Burst() int {
	return r.burst
}

// limiters not used for this duration are forgotten.
func (r *RateLimitConfig) IdleTTL() time.Duration {
	return r.idleTTL
}

type CorrectionConfig struct {
	rules string
	model *ModelConfig
}

// path to the rule file. Empty means the built-in rules.
func (c *CorrectionConfig) Rules() string {
	return c.rules
}

func (c *CorrectionConfig) Model() *ModelConfig {
	return c.model
}

const (
	ProviderNone   = "none"
	ProviderHF     = "hf"
	ProviderGemini = "gemini"
)

type ModelConfig struct {
	provider string
	timeout  time.Duration
	hf       *HFConfig
	gemini   *GeminiConfig
}

// one of ProviderNone, ProviderHF or ProviderGemini.
func (m *ModelConfig) Provider() string {
	return m.provider
}

// time limit of each inference.
func (m *ModelConfig) Timeout() time.Duration {
	return m.timeout
}

// non-nil only when Provider() is ProviderHF.
func (m *ModelConfig) HF() *HFConfig {
	return m.hf
}

// non-nil only when Provider() is ProviderGemini.
func (m *ModelConfig) Gemini() *GeminiConfig {
	return m.gemini
}

type HFConfig struct {
	endpoint          string
	token             string
	maxNewTokens      int
	temperature       float64
	topP              float64
	repetitionPenalty float64
	doSample          bool
}

func (h *HFConfig) Endpoint() string {
	return h.endpoint
}

func (h *HFConfig) Token() string {
	return h.token
}

func (h *HFConfig) MaxNewTokens() int {
	return h.maxNewTokens
}

func (h *HFConfig) Temperature() float64 {
	return h.temperature
}

func (h *HFConfig) TopP() float64 {
	return h.topP
}

func (h *HFConfig) RepetitionPenalty() float64 {
	return h.repetitionPenalty
}

func (h *HFConfig) DoSample() bool {
	return h.doSample
}

type GeminiConfig struct {
	apiKey      string
	model       string
	temperature float64
}

func (g *GeminiConfig) APIKey() string {
	return g.apiKey
}

func (g *GeminiConfig) Model() string {
	return g.model
}

func (g *GeminiConfig) Temperature() float64 {
	return g.temperature
}
