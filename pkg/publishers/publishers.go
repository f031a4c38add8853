package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported publisher types.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one publisher entry of the publishers file.
type PublisherConfig struct {
	ID      string               `json:"id" yaml:"id"`
	Type    string               `json:"type" yaml:"type"`
	Enabled *bool                `json:"enabled" yaml:"enabled"`
	HTTP    *HTTPPublisherConfig `json:"http,omitempty" yaml:"http,omitempty"`
	SQS     *SQSQueueConfig      `json:"sqs,omitempty" yaml:"sqs,omitempty"`
	SNS     *SNSTopicConfig      `json:"sns,omitempty" yaml:"sns,omitempty"`
	PubSub  *GCPQueueConfig      `json:"pubsub,omitempty" yaml:"pubsub,omitempty"`
}

// HTTPPublisherConfig holds webhook settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// AWSAuthConfig is shared by the AWS sinks. Static keys and Endpoint are optional;
// without them the default credential chain and the regional endpoint are used.
type AWSAuthConfig struct {
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
	SessionToken    string `json:"session_token,omitempty" yaml:"session_token,omitempty"`
}

// SQSQueueConfig holds AWS SQS settings.
type SQSQueueConfig struct {
	QueueURL      string `json:"uri" yaml:"uri"`
	AWSAuthConfig `json:",inline" yaml:",inline"`
}

// SNSTopicConfig holds AWS SNS settings.
type SNSTopicConfig struct {
	TopicARN      string `json:"topic_arn" yaml:"topic_arn"`
	AWSAuthConfig `json:",inline" yaml:",inline"`
}

// GCPQueueConfig holds Google Cloud Pub/Sub settings.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
}

// ConfigRegistry holds the publisher entries loaded from a file. It is read-only after load.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]int
}

// LoadRegistry loads publisher definitions from a YAML or JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open publishers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	parsed, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewConfigRegistry(parsed.Publishers)
}

// NewConfigRegistry sanitizes and validates cfgs. An empty list is allowed.
func NewConfigRegistry(cfgs []PublisherConfig) (*ConfigRegistry, error) {
	reg := &ConfigRegistry{
		publishers: make([]PublisherConfig, 0, len(cfgs)),
		idx:        make(map[string]int, len(cfgs)),
	}
	for i := range cfgs {
		cfg := sanitizePublisherConfig(cfgs[i])
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.idx[cfg.ID] = len(reg.publishers)
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out configFile
		if err := d.fn(data, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s publishers: %w", d.name, err))
			continue
		}
		return out, nil
	}
	if len(errs) == 0 {
		return configFile{}, fmt.Errorf("publishers file extension %q not supported (expected .yaml, .yml or .json)", ext)
	}
	return configFile{}, errors.Join(errs...)
}

func sanitizePublisherConfig(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.AWSAuthConfig = sanitizeAWS(c.AWSAuthConfig)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.AWSAuthConfig = sanitizeAWS(c.AWSAuthConfig)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.Endpoint = strings.TrimSpace(c.Endpoint)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}
	return cfg
}

func sanitizeAWS(c AWSAuthConfig) AWSAuthConfig {
	c.Region = strings.TrimSpace(c.Region)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	c.SessionToken = strings.TrimSpace(c.SessionToken)
	return c
}

func sanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for publisher %q", cfg.ID)
		}
		if u, err := url.Parse(cfg.HTTP.URL); err != nil || u.Host == "" {
			return fmt.Errorf("http.url must be an absolute url for publisher %q", cfg.ID)
		}
	case TypeSQS:
		if cfg.SQS == nil {
			return fmt.Errorf("sqs config required for publisher %q", cfg.ID)
		}
		if cfg.SQS.QueueURL == "" {
			return fmt.Errorf("sqs.uri is required for publisher %q", cfg.ID)
		}
		return validateAWS(cfg.ID, "sqs", cfg.SQS.AWSAuthConfig)
	case TypeSNS:
		if cfg.SNS == nil {
			return fmt.Errorf("sns config required for publisher %q", cfg.ID)
		}
		if cfg.SNS.TopicARN == "" {
			return fmt.Errorf("sns.topic_arn is required for publisher %q", cfg.ID)
		}
		return validateAWS(cfg.ID, "sns", cfg.SNS.AWSAuthConfig)
	case TypePubSub:
		if cfg.PubSub == nil {
			return fmt.Errorf("pubsub config required for publisher %q", cfg.ID)
		}
		if cfg.PubSub.ProjectID == "" || cfg.PubSub.Topic == "" {
			return fmt.Errorf("pubsub.project_id and pubsub.topic are required for publisher %q", cfg.ID)
		}
	default:
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	return nil
}

func validateAWS(id, block string, c AWSAuthConfig) error {
	if c.Region == "" {
		return fmt.Errorf("%s.region is required for publisher %q", block, id)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("%s.access_key_id and %s.secret_access_key must be set together for publisher %q", block, block, id)
	}
	return nil
}

// ByID returns the publisher config registered under id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.publishers[i], true
}

// All returns every configured publisher in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	out := make([]PublisherConfig, len(r.publishers))
	copy(out, r.publishers)
	return out
}

// Enabled returns the publishers that are switched on.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range r.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
