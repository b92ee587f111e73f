// Package admin serves the operator RPC: listing rooms and opening the shop.
// Messages are plain structs carried by a JSON codec, so no generated code
// is needed.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	"horde/logger"
	"horde/room"
)

const (
	ServiceName = "horde.admin.v1.AdminService"

	ListRoomsProcedure = "/" + ServiceName + "/ListRooms"
	OpenShopProcedure  = "/" + ServiceName + "/OpenShop"
)

type ListRoomsRequest struct{}

type ListRoomsResponse struct {
	Rooms []room.RoomInfo `json:"rooms"`
}

type OpenShopRequest struct {
	RoomID string `json:"roomId"`
}

type OpenShopResponse struct {
	RoomID string `json:"roomId"`
	Opened bool   `json:"opened"`
}

// Codec is connect's "json" codec for plain Go structs.
type Codec struct{}

func (Codec) Name() string { return "json" }
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (Codec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }

type Service struct {
	manager *room.Manager
}

func NewService(m *room.Manager) *Service {
	return &Service{manager: m}
}

func (s *Service) ListRooms(ctx context.Context, req *connect.Request[ListRoomsRequest]) (*connect.Response[ListRoomsResponse], error) {
	return connect.NewResponse(&ListRoomsResponse{Rooms: s.manager.ListRooms(ctx)}), nil
}

func (s *Service) OpenShop(ctx context.Context, req *connect.Request[OpenShopRequest]) (*connect.Response[OpenShopResponse], error) {
	if req.Msg.RoomID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("roomId is required"))
	}
	err := s.manager.OpenShop(ctx, req.Msg.RoomID)
	switch {
	case errors.Is(err, room.ErrRoomNotFound), errors.Is(err, room.ErrRoomClosed):
		return nil, connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, room.ErrWrongPhase):
		return nil, connect.NewError(connect.CodeFailedPrecondition, err)
	case err != nil:
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	logger.Log.WithFields(logrus.Fields{"room": req.Msg.RoomID}).Info("shop opened by admin")
	return connect.NewResponse(&OpenShopResponse{RoomID: req.Msg.RoomID, Opened: true}), nil
}

// NewHandler returns the mount path and handler for the service.
func NewHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	listRooms := connect.NewUnaryHandler(ListRoomsProcedure, svc.ListRooms, opts...)
	openShop := connect.NewUnaryHandler(OpenShopProcedure, svc.OpenShop, opts...)
	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ListRoomsProcedure:
			listRooms.ServeHTTP(w, r)
		case OpenShopProcedure:
			openShop.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type Client struct {
	listRooms *connect.Client[ListRoomsRequest, ListRoomsResponse]
	openShop  *connect.Client[OpenShopRequest, OpenShopResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &Client{
		listRooms: connect.NewClient[ListRoomsRequest, ListRoomsResponse](httpClient, baseURL+ListRoomsProcedure, opts...),
		openShop:  connect.NewClient[OpenShopRequest, OpenShopResponse](httpClient, baseURL+OpenShopProcedure, opts...),
	}
}

func (c *Client) ListRooms(ctx context.Context) ([]room.RoomInfo, error) {
	res, err := c.listRooms.CallUnary(ctx, connect.NewRequest(&ListRoomsRequest{}))
	if err != nil {
		return nil, err
	}
	return res.Msg.Rooms, nil
}

func (c *Client) OpenShop(ctx context.Context, roomID string) error {
	_, err := c.openShop.CallUnary(ctx, connect.NewRequest(&OpenShopRequest{RoomID: roomID}))
	return err
}
