package dokploy

import (
	"fmt"
	"net/http"
	"strings"
)

// CurlCommand renders the curl invocation equivalent to dispatching method to endpoint.
// The output contains the API key verbatim.
func (d *Dispatcher) CurlCommand(method, endpoint string, payload any) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method != http.MethodGet && method != http.MethodPost {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	var body string
	if method == http.MethodPost && payload != nil {
		raw, err := encodeJSON(payload, "")
		if err != nil {
			return "", fmt.Errorf("encode payload: %w", err)
		}
		body = raw
	}

	lines := []string{
		fmt.Sprintf("curl -X %s", method),
		fmt.Sprintf("  '%s'", d.URL(endpoint)),
		fmt.Sprintf("  -H '%s: %s'", headerAccept, mimeJSON),
	}
	if body != "" {
		lines = append(lines, fmt.Sprintf("  -H '%s: %s'", headerContentType, mimeJSON))
	}
	lines = append(lines, fmt.Sprintf("  -H '%s: %s'", headerAPIKey, d.apiKey))
	if body != "" {
		lines = append(lines, fmt.Sprintf("  -d '%s'", body))
	}
	return strings.Join(lines, " \\\n"), nil
}
