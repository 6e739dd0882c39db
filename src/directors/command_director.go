package directors

import (
	"context"
	"encoding/json"
	"sort"

	"docinspect/src/server"

	"go.uber.org/zap"
)

// HandlerFunc implements one protocol method.
type HandlerFunc func(ctx context.Context, peer *server.Peer, params json.RawMessage) (interface{}, error)

// CommandDirector routes protocol methods to their handlers.
type CommandDirector struct {
	handlers map[string]HandlerFunc
	logger   *zap.SugaredLogger
}

func NewCommandDirector(logger *zap.SugaredLogger) *CommandDirector {
	return &CommandDirector{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers fn for method, replacing any previous handler.
func (d *CommandDirector) Handle(method string, fn HandlerFunc) {
	d.handlers[method] = fn
}

// Methods lists the registered methods in ascending order.
func (d *CommandDirector) Methods() []string {
	methods := make([]string, 0, len(d.handlers))
	for m := range d.handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

func (d *CommandDirector) Dispatch(ctx context.Context, peer *server.Peer, method string, params json.RawMessage) (interface{}, error) {
	fn, ok := d.handlers[method]
	if !ok {
		d.logger.Debugf("Unsupported method %s", method)
		return nil, server.NewRPCError(server.CodeMethodNotFound, "%s wasn't found", method)
	}
	return fn(ctx, peer, params)
}

// decodeParams unmarshals params into v, reporting failures as invalid params.
func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return server.NewRPCError(server.CodeInvalidParams, "params are required")
	}
	if err := json.Unmarshal(params, v); err != nil {
		return server.NewRPCError(server.CodeInvalidParams, "invalid params: %v", err)
	}
	return nil
}
