package sheet

import (
	"context"

	"travel-journal/internal/sheetdb"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Backend 执行一次垫片调用
type Backend interface {
	Call(ctx context.Context, req sheetdb.Request) (*sheetdb.Response, error)
}

// LocalBackend 直接调用本进程内的垫片
type LocalBackend struct {
	Shim *sheetdb.Shim
}

func (b LocalBackend) Call(ctx context.Context, req sheetdb.Request) (*sheetdb.Response, error) {
	resp := b.Shim.Handle(ctx, req)
	return &resp, nil
}

// HTTPBackend 远程表格脚本，只支持 GET 和 POST
type HTTPBackend struct {
	Client   *resty.Client
	Endpoint string
}

func (b HTTPBackend) Call(ctx context.Context, req sheetdb.Request) (*sheetdb.Response, error) {
	params := map[string]string{"action": req.Action}
	if req.Type != "" {
		params["type"] = req.Type
	}
	if req.ID != "" {
		params["id"] = req.ID
	}

	r := b.Client.R().SetContext(ctx).SetQueryParams(params)
	var (
		resp *resty.Response
		err  error
	)
	if req.Action == sheetdb.ActionRead {
		resp, err = r.Get(b.Endpoint)
	} else {
		body, mErr := json.Marshal(req.Body)
		if mErr != nil {
			return nil, errors.Wrap(mErr, "encode shim request")
		}
		resp, err = r.SetHeader("Content-Type", "application/json").SetBody(body).Post(b.Endpoint)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "call shim %s", req.Action)
	}
	if resp.IsError() {
		return nil, errors.Errorf("shim responded %s", resp.Status())
	}

	out := &sheetdb.Response{}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return nil, errors.Wrap(err, "decode shim response")
	}
	return out, nil
}
