package custom

import (
	"context"
	"net/http"
	"time"

	"github.com/vidscout/vidscout/internal/cache"
	"github.com/vidscout/vidscout/network"
	lua "github.com/yuin/gopher-lua"
)

const httpTimeout = 30 * time.Second

// client serves http_tls. Tests swap it for an httptest client.
var client = network.Fingerprinted

// registerTLSClient exposes the browser-fingerprinted client to scripts:
//
//	http_tls.get(url [, headers])  -> body
//	http_tls.request(options)      -> {status, body}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)

	headers := make(map[string]string)
	if tbl := L.OptTable(2, nil); tbl != nil {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	body, _, err := do(http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := getStringField(opts, "method", http.MethodGet)
	url := getStringField(opts, "url", "")
	reqBody := getStringField(opts, "body", "")

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	shouldCache := lua.LVAsBool(opts.RawGetString("cache"))
	headers := getStringMap(opts, "headers")

	push := func(r cachedResponse) int {
		result := L.NewTable()
		L.SetField(result, "status", lua.LNumber(r.Status))
		L.SetField(result, "body", lua.LString(r.Body))
		L.Push(result)
		return 1
	}

	key := cache.Key(url+reqBody, method)
	if shouldCache {
		var entry cachedResponse
		if cache.Read(key, &entry) {
			return push(entry)
		}
	}

	body, status, err := do(method, url, headers, reqBody)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	resp := cachedResponse{Status: status, Body: body}
	if shouldCache && status == http.StatusOK {
		_ = cache.Write(key, resp)
	}

	return push(resp)
}

func do(method, url string, headers map[string]string, body string) (string, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()

	return network.Do(ctx, client, method, url, headers, body)
}
