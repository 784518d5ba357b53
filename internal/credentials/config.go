package credentials

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/appconfig"
	awsclient "github.com/EO-DataHub/eodhp-directory-admin/internal/aws"
)

// New builds the provider selected by cfg.Source.
func New(ctx context.Context, cfg appconfig.CredentialsConfig, region string) (Provider, error) {
	switch cfg.Source {
	case "static":
		return Static(cfg.Token), nil
	case "env":
		return Env(cfg.EnvVar), nil
	case "file", "":
		path := cfg.File
		if path == "" {
			path = DefaultTokenPath()
		}
		return File{Path: path}, nil
	case "secretsmanager":
		client, err := awsclient.NewSecretsManagerClient(ctx, region)
		if err != nil {
			return nil, err
		}
		return SecretsManager{
			Client:   client,
			SecretID: cfg.SecretID,
			Key:      cfg.SecretKey,
		}, nil
	case "kubernetes":
		clientset, err := NewKubernetesClientset()
		if err != nil {
			return nil, err
		}
		return KubernetesSecret{
			Clientset: clientset,
			Namespace: cfg.Namespace,
			Name:      cfg.SecretName,
			Key:       cfg.SecretKey,
		}, nil
	}
	return nil, fmt.Errorf("unknown credentials source %q", cfg.Source)
}
