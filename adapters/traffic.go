package adapters

import (
	"context"
	"fmt"
)

// TrafficInfo is the normalized traffic-flow partial. Valid is false when
// the upstream could not provide speeds for the coordinate.
type TrafficInfo struct {
	CurrentSpeedKPH  float64
	FreeFlowSpeedKPH float64
	Valid            bool
}

// TrafficAdapter wraps the TomTom flow-segment endpoint.
type TrafficAdapter struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewTrafficAdapter creates a TrafficAdapter against the given base URL.
func NewTrafficAdapter(client *Client, baseURL, apiKey string) *TrafficAdapter {
	return &TrafficAdapter{client: client, baseURL: baseURL, apiKey: apiKey}
}

type flowResponse struct {
	FlowSegmentData struct {
		CurrentSpeed  float64 `json:"currentSpeed"`
		FreeFlowSpeed float64 `json:"freeFlowSpeed"`
	} `json:"flowSegmentData"`
}

// Flow fetches the current and free-flow speed of the road segment nearest
// the coordinate.
func (a *TrafficAdapter) Flow(ctx context.Context, lat, lon float64) (TrafficInfo, error) {
	var info TrafficInfo

	url := fmt.Sprintf("%s/traffic/services/4/flowSegmentData/absolute/10/json?point=%f,%f&key=%s",
		a.baseURL, lat, lon, a.apiKey)
	var resp flowResponse
	if err := a.client.getJSON(ctx, "traffic", url, nil, &resp); err != nil {
		return info, err
	}
	if resp.FlowSegmentData.FreeFlowSpeed <= 0 {
		return info, fmt.Errorf("traffic: no flow data near %.5f,%.5f", lat, lon)
	}

	info.CurrentSpeedKPH = resp.FlowSegmentData.CurrentSpeed
	info.FreeFlowSpeedKPH = resp.FlowSegmentData.FreeFlowSpeed
	info.Valid = true
	return info, nil
}
