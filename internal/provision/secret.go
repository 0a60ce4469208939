package provision

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// SecretHandle envuelve el cliente del secret store (Vault).
// Lazy: crear el cliente no toca la red.
type SecretHandle struct {
	// Addr es la URL del secret store.
	Addr string

	// IdentityRoleARN es la identidad administrada con la que este
	// cliente se autentica (login IAM, lazy). Debe coincidir con la de
	// todos los demás clientes con credenciales del proceso.
	IdentityRoleARN string

	client *vault.Client
}

// Client retorna el cliente Vault subyacente.
func (h *SecretHandle) Client() *vault.Client { return h.client }

// Read lee un secreto por path.
func (h *SecretHandle) Read(ctx context.Context, path string) (map[string]interface{}, error) {
	sec, err := h.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("secret store: read %s: %w", path, err)
	}
	if sec == nil || sec.Data == nil {
		return nil, fmt.Errorf("secret store: %s not found", path)
	}
	return sec.Data, nil
}

// SecretStore construye el handle del secret store.
//
// Cloud: cliente Vault contra SECRET_STORE_ADDR, autenticado por token
// del entorno o, sin token, por la identidad administrada. Local:
// retorna (nil, nil) — el secret store está deshabilitado en dev y no
// se intenta ninguna llamada de red.
func (p *Provisioner) SecretStore() (*SecretHandle, error) {
	if !p.rc.IsCloud() {
		return nil, nil
	}

	addr, ok := getEnv(EnvSecretStoreAddr)
	if !ok {
		// Sin endpoint declarado no hay secret store; mismo criterio
		// que la DSN ausente: no es fatal acá.
		return nil, nil
	}

	client, err := vault.NewClient(&vault.Config{
		Address: addr,
		Timeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("secret store: new client: %w", err)
	}
	if token, ok := getEnv(EnvSecretStoreToken); ok {
		client.SetToken(token)
	}

	p.provisioned("secret")
	return &SecretHandle{
		Addr:            addr,
		IdentityRoleARN: identityRoleARN(),
		client:          client,
	}, nil
}
