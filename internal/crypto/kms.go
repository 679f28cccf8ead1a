package crypto

import (
	"context"
	"encoding/base64"
	"strings"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"
)

// sealedPrefix marks values written by Seal. Anything without it is treated as
// plaintext so documents stored before encryption was enabled stay readable.
const sealedPrefix = "kms:"

// kmsClient is the subset of *kms.KeyManagementClient used here.
type kmsClient interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

type KMS struct {
	client  kmsClient
	keyName string
}

func NewKMS(client kmsClient, keyName string) *KMS {
	return &KMS{client: client, keyName: keyName}
}

// Seal encrypts plaintext with the configured key and returns prefixed base64 text.
// Every non-empty value is encrypted, including one that already looks sealed.
func (k *KMS) Seal(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

// Open reverses Seal. Values without the prefix, or whose payload is not base64,
// were never sealed and are returned unchanged.
func (k *KMS) Open(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return value, nil
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", err
	}
	return string(resp.Plaintext), nil
}
