package client

import (
	"context"
	"fmt"
	"net/http"

	"calview/pkg/model"
)

// BookingAPI is the external booking CRUD boundary the calendar engine
// reconciles against. The engine never owns booking truth; it only reads
// refresh snapshots and issues mutations.
type BookingAPI interface {
	ListBookings(ctx context.Context, dateRange model.DateRange) ([]model.Booking, error)
	UpdateBookingSchedule(ctx context.Context, id string, change model.ScheduleChange) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error
}

type BookingAPIClient struct {
	httpClient *HttpClient
}

func NewBookingAPIClient(baseURL string) *BookingAPIClient {
	return &BookingAPIClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingAPIClient) ListBookings(ctx context.Context, dateRange model.DateRange) ([]model.Booking, error) {
	path := fmt.Sprintf("/api/v1/bookings?start=%s&end=%s", dateRange.Start, dateRange.End)
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list bookings failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Data []model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode bookings payload: %w", err)
	}
	return payload.Data, nil
}

func (c *BookingAPIClient) UpdateBookingSchedule(ctx context.Context, id string, change model.ScheduleChange) (*model.Booking, error) {
	resp, err := c.httpClient.PATCH(ctx, "/api/v1/bookings/"+id+"/schedule", change)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update booking schedule failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode booking payload: %w", err)
	}
	return &payload.Data, nil
}

func (c *BookingAPIClient) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	body := map[string]any{"status": status}
	resp, err := c.httpClient.PATCH(ctx, "/api/v1/bookings/"+id+"/status", body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("update booking status failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	return nil
}

func (c *BookingAPIClient) DeleteBooking(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/v1/bookings/"+id)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete booking failed with status %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}
	return nil
}
