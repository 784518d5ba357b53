package appconfig

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host        string            `yaml:"host"`
	BasePath    string            `yaml:"basePath"`
	DocsPath    string            `yaml:"docsPath"`
	Directory   DirectoryConfig   `yaml:"directory"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Search      SearchConfig      `yaml:"search"`
	CORS        CORSConfig        `yaml:"cors"`
	Pulsar      PulsarConfig      `yaml:"pulsar"`
	AWS         AWSConfig         `yaml:"aws"`
}

// DirectoryConfig defines where the directory server lives
type DirectoryConfig struct {
	URL         string `yaml:"url"`
	GraphQLPath string `yaml:"graphqlPath"`
}

// CredentialsConfig selects where the directory credential is read from.
// Source is one of static, env, file, secretsmanager or kubernetes.
type CredentialsConfig struct {
	Source     string `yaml:"source"`
	Token      string `yaml:"token"`
	EnvVar     string `yaml:"envVar"`
	File       string `yaml:"file"`
	SecretID   string `yaml:"secretId"`
	SecretKey  string `yaml:"secretKey"`
	Namespace  string `yaml:"namespace"`
	SecretName string `yaml:"secretName"`
}

// SearchConfig tunes the fuzzy user search
type SearchConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// CORSConfig lists the origins allowed to call the admin API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig loads and parses the configuration from a given file path. The
// file is rendered as a template over the environment before being parsed.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	// Parse the template file
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	// Execute the template with environment variables
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	// Load and unmarshal the YAML
	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0:8080"
	}
	if c.BasePath == "" {
		c.BasePath = "/api/admin"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/api/docs"
	}
	if c.Directory.URL == "" {
		c.Directory.URL = "http://localhost:17170"
	}
	if c.Directory.GraphQLPath == "" {
		c.Directory.GraphQLPath = "/api/graphql"
	}
	if c.Credentials.Source == "" {
		c.Credentials.Source = "file"
	}
	if c.Credentials.EnvVar == "" {
		c.Credentials.EnvVar = "DIRECTORY_TOKEN"
	}
	if c.Search.Threshold == 0 {
		c.Search.Threshold = 0.3
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "eu-west-2"
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
