package transport

import (
	"context"
	"net/http"
)

// ResolveRedirect asks uri where the server lives. Hosted servers answer
// with a 308 Permanent Redirect, the Location is returned in that case,
// otherwise the uri of the request.
func ResolveRedirect(ctx context.Context, client *http.Client, uri string) (string, error) {
	var c http.Client
	if client != nil {
		c = *client
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", ErrRedirectFailed.F(uri, err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", ErrRedirectFailed.F(uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPermanentRedirect {
		loc, err := resp.Location()
		if err != nil {
			return "", ErrRedirectFailed.F(uri, err)
		}
		return loc.String(), nil
	}

	return resp.Request.URL.String(), nil
}
