// Copyright 2023 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package certificates

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/candlepin/apiclient/common"
	"github.com/candlepin/apiclient/config"
)

const CertificatesPath = "certificates"

// Service is the interface to the /certificates resource of the API.
type Service struct {
	// Client is the underlying client used for HTTP requests.
	Client *common.Client

	// EndPointURI is the top-level service API URL. Individual operations
	// endpoints are relative to this.
	EndPointURI *url.URL
}

// NewService creates a new Service instance using the provided endpoint
// URI and a default HTTP client with no authentication.
func NewService(uri string) (*Service, error) {
	m := Service{Client: common.NewClient(nil)}

	if err := m.SetEndpointURI(uri); err != nil {
		return nil, err
	}

	return &m, nil
}

// SetClient sets the HTTP(s) client connection configuration
func (o *Service) SetClient(client *common.Client) error {
	if client == nil {
		return errors.New("no client supplied")
	}
	o.Client = client
	return nil
}

// SetEndpointURI sets the URI of the Candlepin API root, for example
// http://localhost:8080/candlepin
func (o *Service) SetEndpointURI(uri string) error {
	u, err := common.ParseEndpointURI(uri)
	if err != nil {
		return err
	}

	o.EndPointURI = u

	return nil
}

// List returns the raw body of GET /certificates. An empty body means no
// certificate has been imported yet.
func (o *Service) List() ([]byte, error) {
	getURI := o.EndPointURI.JoinPath(CertificatesPath)

	res, err := o.Client.GetResource(common.JSONMediaType, getURI.String())
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}

	if err := common.CheckResponse(res, http.StatusOK, http.StatusNoContent); err != nil {
		return nil, err
	}

	return common.ReadBody(res)
}

// Upload base64-encodes cert and POSTs it to /certificates using the given
// payload shape.
func (o *Service) Upload(cert []byte, shape config.PayloadShape) error {
	body, err := Payload(cert, shape)
	if err != nil {
		return err
	}

	postURI := o.EndPointURI.JoinPath(CertificatesPath)

	res, err := o.Client.PostResource(body, common.JSONMediaType, common.JSONMediaType, postURI.String())
	if err != nil {
		return fmt.Errorf("post request failed: %w", err)
	}

	if err := common.CheckResponse(res, http.StatusOK, http.StatusCreated, http.StatusNoContent); err != nil {
		return err
	}

	res.Body.Close()

	return nil
}

// Encode returns the padded standard base64 encoding of cert.
func Encode(cert []byte) string {
	return base64.StdEncoding.EncodeToString(cert)
}

// Payload builds the upload request body for cert.
func Payload(cert []byte, shape config.PayloadShape) ([]byte, error) {
	encoded := Encode(cert)

	switch shape {
	case config.PayloadBare, "":
		return json.Marshal(encoded)
	case config.PayloadWrapped:
		return json.Marshal(UploadRequest{Base64Cert: encoded})
	default:
		return nil, shape.Validate()
	}
}

// UploadRequest is the wrapped form of the certificate upload body.
type UploadRequest struct {
	Base64Cert string `json:"base64cert"`
}
