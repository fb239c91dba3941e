package bus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/adapters/bus"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func TestEventPublisher_PublishesOnTypedSubject(t *testing.T) {
	// Arrange
	conn := &recordingConn{}
	publisher := bus.NewEventPublisher(conn, "processor")
	event := appProcessing.Event{
		Type:         appProcessing.EventWasteEmitted,
		UnitID:       "furnace-1",
		DefinitionID: "iron_plate",
		Timestamp:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	// Act
	err := publisher.Publish(context.Background(), event)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"processor.waste.emitted"}, conn.subjects)
	var decoded appProcessing.Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &decoded))
	assert.Equal(t, event, decoded)
}

func TestEventPublisher_Errors(t *testing.T) {
	conn := &recordingConn{err: errors.New("disconnected")}
	publisher := bus.NewEventPublisher(conn, "")

	err := publisher.Publish(context.Background(), appProcessing.Event{Type: appProcessing.EventProcessStarted})
	assert.ErrorContains(t, err, "disconnected")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, publisher.Publish(ctx, appProcessing.Event{}), context.Canceled)
	assert.Equal(t, "unit.despawned", publisher.Subject(appProcessing.EventUnitDespawned))
}
