package scanner

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mikimauro/scanbiz/internal/models"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire messages are google.protobuf.Struct values:
//
//	request:  {"mode": "CARD", "image": "<base64>", "contentType": "image/jpeg"}
//	response: a ScanResult in its JSON form

func requestToStruct(req Request) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"mode":        string(req.Mode),
		"image":       base64.StdEncoding.EncodeToString(req.Image),
		"contentType": req.ContentType,
	})
}

func requestFromStruct(s *structpb.Struct) (Request, error) {
	fields := s.GetFields()
	image, err := base64.StdEncoding.DecodeString(fields["image"].GetStringValue())
	if err != nil {
		return Request{}, fmt.Errorf("decode image: %w", err)
	}
	return Request{
		Mode:        models.ScanMode(fields["mode"].GetStringValue()),
		Image:       image,
		ContentType: fields["contentType"].GetStringValue(),
	}, nil
}

func resultToStruct(r models.ScanResult) (*structpb.Struct, error) {
	if len(r.Data) == 0 {
		r.Data = json.RawMessage("null")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func resultFromStruct(s *structpb.Struct) (models.ScanResult, error) {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return models.ScanResult{}, err
	}
	var r models.ScanResult
	if err := json.Unmarshal(b, &r); err != nil {
		return models.ScanResult{}, fmt.Errorf("decode scan result: %w", err)
	}
	return r, nil
}
