// Package config loads the service configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	lif "github.com/LIF-Initiative/lif-core"
	"github.com/LIF-Initiative/lif-core/gql"
	"github.com/LIF-Initiative/lif-core/model"
)

// EnvPrefix prefixes every environment variable derived from a key:
// query_planner.base_url is read from LIF_QUERY_PLANNER_BASE_URL.
const EnvPrefix = "LIF"

// Config is the full service configuration.
type Config struct {
	RootTypeName string             `mapstructure:"root_type_name"`
	QueryPlanner QueryPlannerConfig `mapstructure:"query_planner"`
	MDR          MDRConfig          `mapstructure:"mdr"`
	OpenAPI      OpenAPIConfig      `mapstructure:"openapi"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Server       ServerConfig       `mapstructure:"server"`
	GraphQL      GraphQLConfig      `mapstructure:"graphql"`
	Log          LogConfig          `mapstructure:"log"`
	Policies     PoliciesConfig     `mapstructure:"policies"`
}

type QueryPlannerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// TimeoutSeconds overrides Timeout when positive.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type MDRConfig struct {
	APIURL      string `mapstructure:"api_url"`
	AuthToken   string `mapstructure:"auth_token"`
	DataModelID string `mapstructure:"data_model_id"`
}

type OpenAPIConfig struct {
	File    string `mapstructure:"file"`
	UseFile bool   `mapstructure:"use_file"`
}

type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

type GraphQLConfig struct {
	DumpSchema bool   `mapstructure:"dump_schema"`
	DumpPath   string `mapstructure:"dump_path"`
	Strict     bool   `mapstructure:"strict"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PolicyConfig struct {
	AllOptional bool `mapstructure:"all_optional"`
	AllowExtra  bool `mapstructure:"allow_extra"`
}

type PoliciesConfig struct {
	Filter   PolicyConfig `mapstructure:"filter"`
	Mutation PolicyConfig `mapstructure:"mutation"`
	Full     PolicyConfig `mapstructure:"full"`
}

// legacyEnv lists the variable names of earlier deployments, tried after the
// prefixed name in the order given.
var legacyEnv = map[string][]string{
	"root_type_name":                {"LIF_GRAPHQL_ROOT_TYPE_NAME", "LIF_GRAPHQL_ROOT_NODE", "ROOT_NODE"},
	"query_planner.base_url":        {"LIF_QUERY_PLANNER_URL"},
	"query_planner.timeout_seconds": {"LIF_QUERY_TIMEOUT_SECONDS"},
	"mdr.api_url":                   {"LIF_MDR_API_URL"},
	"mdr.auth_token":                {"LIF_MDR_API_AUTH_TOKEN"},
	"mdr.data_model_id":             {"OPENAPI_DATA_MODEL_ID"},
	"openapi.file":                  {"LIF_OPENAPI_SCHEMA_PATH", "OPENAPI_SCHEMA_FILE"},
	"openapi.use_file":              {"USE_OPENAPI_DATA_MODEL_FROM_FILE"},
	"graphql.dump_schema":           {"LIF_GRAPHQL_DUMP_SCHEMA"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root_type_name", "Person")
	v.SetDefault("query_planner.base_url", "")
	v.SetDefault("query_planner.timeout", 20*time.Second)
	v.SetDefault("query_planner.timeout_seconds", 0)
	v.SetDefault("mdr.api_url", "http://localhost:8012")
	v.SetDefault("mdr.auth_token", "")
	v.SetDefault("mdr.data_model_id", "")
	v.SetDefault("openapi.file", "")
	v.SetDefault("openapi.use_file", false)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.path", "/graphql")
	v.SetDefault("graphql.dump_schema", false)
	v.SetDefault("graphql.dump_path", "_artifacts/schema.graphql")
	v.SetDefault("graphql.strict", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	for name, p := range map[string]model.Policy{"filter": model.FilterPolicy, "mutation": model.MutationPolicy, "full": model.FullPolicy} {
		v.SetDefault("policies."+name+".all_optional", p.AllOptional)
		v.SetDefault("policies."+name+".allow_extra", p.AllowExtra)
	}
}

// New returns a viper instance with defaults and environment bindings but no
// file.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(append([]string{key, prefixed}, names...)...)
	}
	return v
}

// Load reads path (optional; "" skips the file) and the environment, then
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for offline tooling that never calls the
// query planner.
func Read(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

// FromViper decodes and validates v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.QueryPlanner.TimeoutSeconds > 0 {
		cfg.QueryPlanner.Timeout = time.Duration(cfg.QueryPlanner.TimeoutSeconds) * time.Second
	}
	cfg.RootTypeName = strings.TrimSpace(cfg.RootTypeName)
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.RootTypeName == "" {
		err = multierr.Append(err, errors.New("root_type_name cannot be empty"))
	}
	if c.QueryPlanner.BaseURL == "" {
		err = multierr.Append(err, errors.New("query_planner.base_url is required (LIF_QUERY_PLANNER_URL)"))
	}
	if c.QueryPlanner.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("query_planner.timeout must be positive, got %s", c.QueryPlanner.Timeout))
	}
	if c.OpenAPI.UseFile && c.OpenAPI.File == "" {
		err = multierr.Append(err, errors.New("openapi.use_file is set but openapi.file is empty"))
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL < 0 {
		err = multierr.Append(err, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		err = multierr.Append(err, fmt.Errorf("server.path must start with '/', got %q", c.Server.Path))
	}
	if err != nil {
		return &lif.ConfigError{Root: c.RootTypeName, Msg: err.Error()}
	}
	return nil
}

// QueryURL is the planner's read endpoint.
func (c *Config) QueryURL() string { return strings.TrimRight(c.QueryPlanner.BaseURL, "/") + "/query" }

// UpdateURL is the planner's write endpoint.
func (c *Config) UpdateURL() string {
	return strings.TrimRight(c.QueryPlanner.BaseURL, "/") + "/update"
}

func (c *Config) QueryName() string    { return gql.OperationNames(c.RootTypeName).Single }
func (c *Config) ListName() string     { return gql.OperationNames(c.RootTypeName).List }
func (c *Config) MutationName() string { return gql.OperationNames(c.RootTypeName).Update }

// ModelPolicies applies the configured optionality and extensibility to the
// built-in policies.
func (c *Config) ModelPolicies() model.Policies {
	ps := model.DefaultPolicies()
	apply := func(p *model.Policy, pc PolicyConfig) {
		p.AllOptional = pc.AllOptional
		p.AllowExtra = pc.AllowExtra
	}
	apply(&ps.Filter, c.Policies.Filter)
	apply(&ps.Mutation, c.Policies.Mutation)
	apply(&ps.Full, c.Policies.Full)
	return ps
}
