package provision

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// BlobHandle es un cliente S3 lazy para un endpoint de blobs nombrado.
// Construirlo no hace IO: el SDK recién dialoguea en la primera operación.
type BlobHandle struct {
	// Name es el nombre lógico declarado por la aplicación.
	Name string

	// Bucket resuelto (env var en cloud, nombre lógico en local).
	Bucket string

	// Endpoint no-vacío solo en local (emulador minio/localstack).
	Endpoint string

	// IdentityRoleARN es la identidad administrada usada por el cliente.
	// Vacío en local. Debe ser idéntico entre todos los handles cloud
	// del mismo proceso.
	IdentityRoleARN string

	client *s3.S3
}

// Client retorna el cliente S3 subyacente.
func (h *BlobHandle) Client() *s3.S3 { return h.client }

// BlobStores construye un cliente por cada conexión nombrada.
//
// Cloud: bucket desde la env var de cada conexión; credenciales por
// assume-role con la identidad administrada, la MISMA para todos los
// clientes del proceso. Local: endpoint override al emulador del YAML,
// credenciales estáticas de dev y path-style.
func (p *Provisioner) BlobStores(conns []NamedConnection) (map[string]*BlobHandle, error) {
	out := make(map[string]*BlobHandle, len(conns))
	if len(conns) == 0 {
		return out, nil
	}

	if p.rc.IsCloud() {
		roleARN := identityRoleARN()
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(p.cfg.Blob.Region),
		})
		if err != nil {
			return nil, err
		}
		var creds *credentials.Credentials
		if roleARN != "" {
			creds = stscreds.NewCredentials(sess, roleARN)
		}
		for _, c := range conns {
			bucket, _ := getEnv(c.EnvKey)
			cfg := &aws.Config{Region: aws.String(p.cfg.Blob.Region)}
			if creds != nil {
				cfg.Credentials = creds
			}
			out[c.Name] = &BlobHandle{
				Name:            c.Name,
				Bucket:          bucket,
				IdentityRoleARN: roleARN,
				client:          s3.New(sess, cfg),
			}
			p.provisioned("blob")
		}
		return out, nil
	}

	// Local: emulador S3 por conexión nombrada.
	for _, c := range conns {
		sess, err := session.NewSession(&aws.Config{
			Region:           aws.String(p.cfg.Blob.Region),
			Endpoint:         aws.String(p.cfg.Blob.LocalEndpoint),
			S3ForcePathStyle: aws.Bool(true),
			Credentials: credentials.NewStaticCredentials(
				orDefault(p.cfg.Blob.LocalAccessKey, "dev"),
				orDefault(p.cfg.Blob.LocalSecretKey, "devsecret"),
				"",
			),
		})
		if err != nil {
			return nil, err
		}
		out[c.Name] = &BlobHandle{
			Name:     c.Name,
			Bucket:   strings.ToLower(c.Name),
			Endpoint: p.cfg.Blob.LocalEndpoint,
			client:   s3.New(sess),
		}
		p.provisioned("blob")
	}
	return out, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
