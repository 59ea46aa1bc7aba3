// Copyright 2021 Contributors to the Candlepin project.
// SPDX-License-Identifier: Apache-2.0

package consumers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/candlepin/apiclient/auth"
	"github.com/candlepin/apiclient/common"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

const (
	ConsumersPath = "consumers"

	SystemType = "system"
)

// ErrMissingUUID is returned when a registration response carries no uuid.
var ErrMissingUUID = errors.New("consumer response has no uuid")

// Facts are free-form consumer attributes, as reported by a system's
// hardware probe.
type Facts map[string]string

// RegisterRequest is the body of POST /consumers
type RegisterRequest struct {
	Name  string       `json:"name"`
	Type  ConsumerType `json:"type"`
	Facts Facts        `json:"facts,omitempty"`
}

type ConsumerType struct {
	Label string `json:"label" mapstructure:"label"`
}

// Consumer is the subset of the consumer resource the client cares about.
// Raw keeps the complete decoded response.
type Consumer struct {
	UUID     string       `mapstructure:"uuid"`
	Name     string       `mapstructure:"name"`
	Username string       `mapstructure:"username"`
	Type     ConsumerType `mapstructure:"type"`
	Facts    Facts        `mapstructure:"facts"`

	Raw map[string]interface{} `mapstructure:"-"`
}

// Service is the interface to the /consumers resource of the API.
type Service struct {
	Client      *common.Client
	EndPointURI *url.URL
}

// NewService creates a new Service instance using the provided endpoint
// URI and a default HTTP client with no authentication.
func NewService(uri string) (*Service, error) {
	s := Service{Client: common.NewClient(nil)}

	if err := s.SetEndpointURI(uri); err != nil {
		return nil, err
	}

	return &s, nil
}

// SetClient sets the HTTP(s) client connection configuration
func (o *Service) SetClient(client *common.Client) error {
	if client == nil {
		return errors.New("no client supplied")
	}
	o.Client = client
	return nil
}

// SetEndpointURI sets the URI of the Candlepin API root.
func (o *Service) SetEndpointURI(uri string) error {
	u, err := common.ParseEndpointURI(uri)
	if err != nil {
		return err
	}

	o.EndPointURI = u

	return nil
}

// Register creates a new system consumer named name, authenticating as
// username/password. Every call creates a distinct consumer.
func (o *Service) Register(username, password, name string, facts Facts) (*Consumer, error) {
	if name == "" {
		return nil, errors.New("missing consumer name")
	}

	body, err := json.Marshal(RegisterRequest{
		Name:  name,
		Type:  ConsumerType{Label: SystemType},
		Facts: facts,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding registration request: %w", err)
	}

	postURI := o.EndPointURI.JoinPath(ConsumersPath)

	client := o.Client.WithAuth(auth.NewBasicAuthenticator(username, password))

	res, err := client.PostResource(body, common.JSONMediaType, common.JSONMediaType, postURI.String())
	if err != nil {
		return nil, fmt.Errorf("post request failed: %w", err)
	}

	if err := common.CheckResponse(res, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	return consumerFromResponse(res)
}

// Get fetches the consumer identified by id.
func (o *Service) Get(id string) (*Consumer, error) {
	getURI, err := o.consumerURI(id)
	if err != nil {
		return nil, err
	}

	res, err := o.Client.GetResource(common.JSONMediaType, getURI.String())
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}

	if err := common.CheckResponse(res, http.StatusOK); err != nil {
		return nil, err
	}

	return consumerFromResponse(res)
}

// Delete deregisters the consumer identified by id.
func (o *Service) Delete(id string) error {
	deleteURI, err := o.consumerURI(id)
	if err != nil {
		return err
	}

	return o.Client.DeleteResource(deleteURI.String())
}

func (o *Service) consumerURI(id string) (*url.URL, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid consumer uuid %q: %w", id, err)
	}

	return o.EndPointURI.JoinPath(ConsumersPath, id), nil
}

func consumerFromResponse(res *http.Response) (*Consumer, error) {
	if res.ContentLength == 0 {
		res.Body.Close()
		return nil, errors.New("empty body")
	}

	var raw map[string]interface{}

	if err := common.DecodeJSONBody(res, &raw); err != nil {
		return nil, fmt.Errorf("failure decoding consumer: %w", err)
	}

	var c Consumer

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &c,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failure decoding consumer: %w", err)
	}

	if c.UUID == "" {
		return nil, ErrMissingUUID
	}

	c.Raw = raw

	return &c, nil
}
