package migrate

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTransientStartup clasifica errores de "el servidor todavía no está
// listo": fallas de handshake pre-auth y errores de socket de bajo nivel
// con el peer sin escuchar. Todo lo demás (credenciales inválidas, SQL
// roto, permisos) es no-transitorio y corta el retry.
func IsTransientStartup(err error) bool {
	if err == nil {
		return false
	}

	// Falla antes de completar el establecimiento de la conexión
	// (DNS, TCP, handshake TLS/startup de postgres).
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	// El propio driver marca operaciones seguras de reintentar
	// (falló antes de llegar al servidor).
	if pgconn.SafeToRetry(err) {
		return true
	}

	// Postgres arrancando: "the database system is starting up" (57P03)
	// o shutdown en progreso (57P01/57P02) durante un rolling restart.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "57P01", "57P02", "57P03":
			return true
		}
	}

	// Socket: peer no escucha todavía o cortó en el medio del arranque.
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) {
		return true
	}

	// Resolución DNS del servicio que todavía no existe (orquestador
	// creando el contenedor de la DB).
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// Último recurso: algunos paths del driver solo exponen el texto.
	msg := err.Error()
	for _, s := range []string{
		"connection refused",
		"connection reset by peer",
		"failed to connect",
		"server login has been failing", // pre-login race del pooler
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
