package credentials

import (
	"context"
	"fmt"
	"os"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// KubernetesSecret reads the credential from a key of a Kubernetes secret.
type KubernetesSecret struct {
	Clientset kubernetes.Interface
	Namespace string
	Name      string
	Key       string
}

func (k KubernetesSecret) Credential(ctx context.Context) (string, error) {
	secret, err := k.Clientset.CoreV1().Secrets(k.Namespace).Get(ctx, k.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get Kubernetes secret %s/%s: %w", k.Namespace, k.Name, err)
	}
	return string(secret.Data[k.Key]), nil
}

// NewKubernetesClientset builds a clientset from the in-cluster config when
// running in a pod, or from the local kubeconfig otherwise.
func NewKubernetesClientset() (kubernetes.Interface, error) {
	var config *rest.Config
	var err error

	if _, exists := os.LookupEnv("KUBERNETES_SERVICE_HOST"); exists {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load in-cluster Kubernetes config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", clientcmd.RecommendedHomeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return clientset, nil
}
