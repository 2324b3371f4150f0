package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/roomchat/internal/codec"
)

func TestMailboxDrainKeepsOrder(t *testing.T) {
	m := NewMailbox()

	require.True(t, m.Deliver(codec.MessageResponse{Text: "a"}))
	require.True(t, m.Deliver(codec.PingResponse{}))
	require.True(t, m.Deliver(codec.MessageResponse{Text: "b"}))
	require.Equal(t, 3, m.Len())

	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready should fire after a delivery")
	}

	got, closed := m.Drain()
	require.False(t, closed)
	require.Equal(t, []codec.Response{
		codec.MessageResponse{Text: "a"},
		codec.PingResponse{},
		codec.MessageResponse{Text: "b"},
	}, got)
	require.Zero(t, m.Len())
}

func TestMailboxClose(t *testing.T) {
	m := NewMailbox()
	require.True(t, m.Deliver(codec.PingResponse{}))
	m.Drain()

	m.Close()
	m.Close()

	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready should fire after Close")
	}

	require.False(t, m.Deliver(codec.PingResponse{}))
	got, closed := m.Drain()
	require.True(t, closed)
	require.Empty(t, got)
}

func TestMailboxDrainAfterCloseReturnsQueued(t *testing.T) {
	m := NewMailbox()
	require.True(t, m.Deliver(codec.JoinedResponse{Room: "rust"}))
	m.Close()

	got, closed := m.Drain()
	require.True(t, closed)
	require.Equal(t, []codec.Response{codec.JoinedResponse{Room: "rust"}}, got)
}
