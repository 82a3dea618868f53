package dokploy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Endpoints outside the resource catalog.
const (
	EndpointProjectAll        = "api/project.all"
	EndpointApplicationDeploy = "api/trpc/application.deploy"
)

var (
	// ErrUnknownResource is returned when a kind is not in the catalog.
	ErrUnknownResource = errors.New("dokploy: unknown resource kind")
	// ErrMissingID is returned when an operation is called without a target id.
	ErrMissingID = errors.New("dokploy: id is required")
)

// TRPCInput is the request envelope tRPC procedures expect.
type TRPCInput struct {
	JSON map[string]string `json:"json"`
}

func trpcInput(key, id string) TRPCInput {
	return TRPCInput{JSON: map[string]string{key: id}}
}

// Client is the Dokploy API client.
type Client struct {
	dispatcher *Dispatcher
	catalog    *Catalog

	// Services
	Projects     *ProjectsService
	Applications *ApplicationsService
	Resources    *ResourcesService
	Compose      *ComposeService
}

// NewClient creates a new Dokploy API client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("dokploy: BaseURL is required")
	}
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("dokploy: invalid BaseURL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dokploy: invalid BaseURL %q (scheme and host required)", cfg.BaseURL)
	}

	o := buildOptions(opts)
	catalog := o.catalog
	if catalog == nil {
		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("dokploy: load catalog: %w", err)
		}
	}

	c := &Client{
		dispatcher: NewDispatcher(cfg, opts...),
		catalog:    catalog,
	}

	// Initialize services
	c.Projects = &ProjectsService{client: c}
	c.Applications = &ApplicationsService{client: c}
	c.Resources = &ResourcesService{client: c}
	c.Compose = &ComposeService{client: c}

	return c, nil
}

// Dispatcher exposes the underlying request dispatcher.
func (c *Client) Dispatcher() *Dispatcher { return c.dispatcher }

// Catalog returns the resource catalog in use.
func (c *Client) Catalog() *Catalog { return c.catalog }

// ProjectsService handles project-related API calls.
type ProjectsService struct {
	client *Client
}

// All lists every project visible to the API key.
func (s *ProjectsService) All(ctx context.Context) (*Response, error) {
	return s.client.dispatcher.Dispatch(ctx, http.MethodGet, EndpointProjectAll, nil)
}

// ApplicationsService handles application-related API calls.
type ApplicationsService struct {
	client *Client
}

// DeployPayload returns the request body for deploying applicationID.
func DeployPayload(applicationID string) TRPCInput {
	return trpcInput("applicationId", applicationID)
}

// Deploy triggers a deployment of the application.
func (s *ApplicationsService) Deploy(ctx context.Context, applicationID string) (*Response, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, fmt.Errorf("deploy application: %w", ErrMissingID)
	}
	return s.client.dispatcher.Dispatch(ctx, http.MethodPost, EndpointApplicationDeploy, DeployPayload(applicationID))
}

// ResourcesService starts and stops catalog resources (databases, compose stacks).
type ResourcesService struct {
	client *Client
}

// Start starts the resource of the given kind.
func (s *ResourcesService) Start(ctx context.Context, kind, id string) (*Response, error) {
	return s.do(ctx, ActionStart, kind, id)
}

// Stop stops the resource of the given kind.
func (s *ResourcesService) Stop(ctx context.Context, kind, id string) (*Response, error) {
	return s.do(ctx, ActionStop, kind, id)
}

func (s *ResourcesService) do(ctx context.Context, action Action, kind, id string) (*Response, error) {
	res, ok := s.client.catalog.ByKind(kind)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", action, kind, ErrUnknownResource)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s %s: %w", action, kind, ErrMissingID)
	}
	return s.client.dispatcher.Dispatch(ctx, http.MethodPost, res.Endpoint(action), res.Payload(id))
}

// ComposeService handles docker compose stacks.
type ComposeService struct {
	client *Client
}

// Start starts the compose stack.
func (s *ComposeService) Start(ctx context.Context, composeID string) (*Response, error) {
	return s.client.Resources.Start(ctx, KindCompose, composeID)
}

// Stop stops the compose stack.
func (s *ComposeService) Stop(ctx context.Context, composeID string) (*Response, error) {
	return s.client.Resources.Stop(ctx, KindCompose, composeID)
}
