package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager reads the credential from an AWS Secrets Manager secret.
// When Key is set the secret string is a JSON object and the credential is
// the value under Key.
type SecretsManager struct {
	Client   SecretsManagerAPI
	SecretID string
	Key      string
}

func (s SecretsManager) Credential(ctx context.Context) (string, error) {
	result, err := s.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.SecretID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException" {
			return "", nil
		}
		return "", fmt.Errorf("failed to get secret %s: %w", s.SecretID, err)
	}

	secret := aws.ToString(result.SecretString)
	if s.Key == "" {
		return secret, nil
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(secret), &values); err != nil {
		return "", fmt.Errorf("failed to parse secret %s: %w", s.SecretID, err)
	}
	return values[s.Key], nil
}
