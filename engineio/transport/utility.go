package transport

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPath is where engine.io servers listen unless a framework (like
// "socket.io") mounts them somewhere else.
const DefaultPath = "engine.io"

// URL returns the websocket endpoint of an Engine.IO server. http(s) schemes
// become ws(s), an empty path is replaced with "/<path>/", and the EIO and
// transport query values are set.
func URL(uri, path string, version int) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, ErrInvalidURL.F(err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, ErrUnsupportedScheme.F(u.Scheme)
	}

	if u.Host == "" {
		return nil, ErrMissingHost.F(uri)
	}

	if u.Path == "" || u.Path == "/" {
		if path = strings.Trim(path, "/"); path == "" {
			path = DefaultPath
		}
		u.Path = "/" + path + "/"
	}

	q := u.Query()
	q.Set("EIO", strconv.Itoa(version))
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()

	return u, nil
}
