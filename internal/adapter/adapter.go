package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// MakeServerTLSConfig loads the server key pair from cert and key.
// When ca is not empty, clients must present a certificate signed by it.
//
// All args are the filepaths.
func MakeServerTLSConfig(ca, cert, key string) (*tls.Config, error) {
	const op = "adapter.MakeServerTLSConfig"

	serverCert, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{serverCert},
	}
	if ca == "" {
		return cfg, nil
	}

	caCert, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%s: %w", op, errors.New("failed to parse CA certificate"))
	}

	cfg.ClientCAs = caCertPool
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	return cfg, nil
}
