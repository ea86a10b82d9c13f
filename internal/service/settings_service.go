package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/onbeventi/internal/settings"
)

// SettingsService exposes the stored API key. The key itself never leaves
// the server unmasked.
type SettingsService struct {
	settings *settings.Store
}

func NewSettingsService(store *settings.Store) *SettingsService {
	return &SettingsService{settings: store}
}

func (s *SettingsService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetSettingsProcedure, connect.NewUnaryHandler(GetSettingsProcedure, s.GetSettings, opts...))
	mux.Handle(SetAPIKeyProcedure, connect.NewUnaryHandler(SetAPIKeyProcedure, s.SetAPIKey, opts...))
	return "/" + SettingsServiceName + "/", mux
}

// GetSettings reports the masked key in effect and where it came from.
func (s *SettingsService) GetSettings(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[SettingsResponse], error) {
	key, source := s.settings.Resolve(ctx)
	return connect.NewResponse(&SettingsResponse{
		APIKey: settings.Mask(key),
		Source: string(source),
	}), nil
}

// SetAPIKey stores a new key. An empty key removes the stored one, falling
// back to the environment default.
func (s *SettingsService) SetAPIKey(ctx context.Context, req *connect.Request[SetAPIKeyRequest]) (*connect.Response[SettingsResponse], error) {
	if err := s.settings.SetAPIKey(ctx, req.Msg.APIKey); err != nil {
		return nil, toConnectError(ctx, "SetAPIKey", err)
	}
	return s.GetSettings(ctx, connect.NewRequest(&emptypb.Empty{}))
}
