package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/etdofresh/dokploy-probe/internal/config"
	"github.com/etdofresh/dokploy-probe/internal/domain"
	"github.com/etdofresh/dokploy-probe/internal/logger"
	"github.com/etdofresh/dokploy-probe/pkg/dokploy"
	"github.com/etdofresh/dokploy-probe/pkg/publishers"
)

const (
	rule             = "============================================================"
	projectsPreview  = 500
	exampleID        = "your-id"
	exampleComposeID = "your-compose-id"
	exampleAppID     = "your-app-id"
)

// Probe runs the four API demonstration routines against a Dokploy instance.
type Probe struct {
	cfg    *config.Config
	client *dokploy.Client
	fanout *publishers.Fanout
	out    io.Writer
	log    logger.Logger
}

// NewProbe builds a probe from config. Dispatch events are published when a
// publishers file is configured.
func NewProbe(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := dokploy.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load resource catalog: %w", err)
	}
	kinds := make([]string, 0, len(catalog.All()))
	for _, r := range catalog.All() {
		kinds = append(kinds, r.Kind)
	}
	log.InfoObj("resource catalog loaded", "catalog_meta", map[string]any{
		"file":  cfg.CatalogFile,
		"kinds": kinds,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	opts := []dokploy.Option{
		dokploy.WithOutput(out),
		dokploy.WithLogger(log),
		dokploy.WithCatalog(catalog),
	}
	if fanout.Size() > 0 {
		opts = append(opts, dokploy.WithObserver(&dispatchRecorder{fanout: fanout, log: log}))
	}

	client, err := dokploy.NewClient(dokploy.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
		Offline: cfg.Offline,
	}, opts...)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init dokploy client: %w", err)
	}

	return &Probe{
		cfg:    cfg,
		client: client,
		fanout: fanout,
		out:    out,
		log:    log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherCfg, err := publishers.LoadConfig(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabled := publisherCfg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// dispatchRecorder forwards finished dispatches to the publisher fanout.
type dispatchRecorder struct {
	fanout *publishers.Fanout
	log    logger.Logger
}

func (r *dispatchRecorder) Observe(ctx context.Context, d dokploy.Dispatch) {
	if _, err := r.fanout.Publish(ctx, publishers.NewEvent(d)); err != nil {
		r.log.WarnObj("publish dispatch event failed", "publish_error", map[string]any{
			"endpoint": d.Endpoint,
			"error":    err.Error(),
		})
	}
}

// Run prints the banner and executes every routine in order. It stops early
// when ctx is cancelled between routines.
func (p *Probe) Run(ctx context.Context) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("probe is not initialized")
	}
	defer p.closeFanout()

	p.println(rule)
	p.println("Dokploy API Test Script")
	p.println(rule)
	p.printf("API Base URL: %s\n", p.client.Dispatcher().BaseURL())
	p.printf("API Key: %s\n", p.cfg.MaskedAPIKey())
	p.println("")

	routines := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"projects", p.getAllProjects},
		{"deploy", p.deployApplication},
		{"databases", p.databaseOperations},
		{"compose", p.composeOperations},
	}
	for _, r := range routines {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.log.DebugObj("routine starting", "routine", r.name)
		if err := r.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
	}

	p.println("\n" + rule)
	p.println("All tests completed!")
	p.println(rule)

	if p.client.Dispatcher().Offline() {
		p.println("\nNote: unset OFFLINE to make actual API calls:")
		p.println("  OFFLINE=false dokploy-probe")
	}
	return nil
}

func (p *Probe) section(title string) {
	p.println("\n" + rule)
	p.println(title)
	p.println(rule)
}

func (p *Probe) getAllProjects(ctx context.Context) error {
	p.section("Test 1: Get All Projects")

	resp, err := p.client.Projects.All(ctx)
	if err != nil {
		return err
	}

	if hasContent(resp) {
		p.println("\nProjects retrieved successfully!")
		p.println(truncate(resp.Pretty(), projectsPreview) + "...")
		return nil
	}

	p.println("\nExample response format:")
	p.println(dokploy.IndentJSON(domain.ExampleProjectList()))
	return nil
}

func (p *Probe) deployApplication(ctx context.Context) error {
	p.section("Test 2: Deploy Application")

	appID := strings.TrimSpace(p.cfg.ApplicationID)
	if appID == "" {
		p.println("No applicationId provided - showing example only")
		p.println("\nExample usage:")
		p.println("  DOKPLOY_APPLICATION_ID=your-application-id dokploy-probe")
		p.println("\nExample curl equivalent:")
		curl, err := p.client.Dispatcher().CurlCommand(http.MethodPost, dokploy.EndpointApplicationDeploy, dokploy.DeployPayload(exampleAppID))
		if err != nil {
			return err
		}
		p.println("\n" + curl + "\n")
		return nil
	}

	resp, err := p.client.Applications.Deploy(ctx, appID)
	if err != nil {
		return err
	}
	if hasContent(resp) {
		p.println("\nDeployment triggered successfully!")
		p.println(resp.Pretty())
	}
	return nil
}

func (p *Probe) databaseOperations(context.Context) error {
	p.section("Test 3: Database Operations (Examples)")

	d := p.client.Dispatcher()
	for _, res := range p.client.Catalog().Databases() {
		p.printf("\n%s:\n", res.Name)
		p.printf("  Start: %s\n", d.URL(res.Start))
		p.printf("  Stop: %s\n", d.URL(res.Stop))
		p.printf("  Example data: %s\n", dokploy.CompactJSON(res.Payload(exampleID)))
	}
	return nil
}

func (p *Probe) composeOperations(context.Context) error {
	p.section("Test 4: Docker Compose Operations (Examples)")

	res, ok := p.client.Catalog().ByKind(dokploy.KindCompose)
	if !ok {
		p.println("\nCompose is not present in the resource catalog")
		return nil
	}
	d := p.client.Dispatcher()
	p.printf("\nStart Compose: %s\n", d.URL(res.Start))
	p.printf("Stop Compose: %s\n", d.URL(res.Stop))
	p.printf("Example data: %s\n", dokploy.CompactJSON(res.Payload(exampleComposeID)))
	return nil
}

func (p *Probe) closeFanout() {
	if err := p.fanout.Close(); err != nil {
		p.log.WarnObj("closing publishers failed", "error", err.Error())
	}
}

func (p *Probe) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Probe) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// hasContent reports whether resp carries a non-empty result. Empty lists,
// objects and bodies count as no result.
func hasContent(resp *dokploy.Response) bool {
	if resp == nil {
		return false
	}
	if !resp.Structured() {
		return resp.Raw != ""
	}
	switch v := resp.Value.(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	}
	return true
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
