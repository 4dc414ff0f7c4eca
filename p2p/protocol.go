//
// Copyright (c) 2019-2025 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the length-prefixed request/reply message
// transport the protocol driver and the oblivious-transfer
// subprotocol run over.
package p2p

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Conn is a framed duplex connection: every SendData/SendUint32 call
// is buffered until Flush, and every Receive call blocks for a full
// frame. Conn implements ot.IO, so it can be used directly as the
// oblivious-transfer transport.
type Conn struct {
	closer io.Closer
	io     *bufio.ReadWriter
	Stats  IOStats
}

// IOStats counts bytes moved over a Conn, for reporting.
type IOStats struct {
	Sent  uint64
	Recvd uint64
}

// Sub returns the per-field difference between two snapshots.
func (stats IOStats) Sub(o IOStats) IOStats {
	return IOStats{
		Sent:  stats.Sent - o.Sent,
		Recvd: stats.Recvd - o.Recvd,
	}
}

// Sum returns the total bytes sent and received.
func (stats IOStats) Sum() uint64 {
	return stats.Sent + stats.Recvd
}

// NewConn wraps a byte stream (typically a net.Conn) in the framed
// protocol.
func NewConn(conn io.ReadWriter) *Conn {
	closer, _ := conn.(io.Closer)

	return &Conn{
		closer: closer,
		io: bufio.NewReadWriter(bufio.NewReader(conn),
			bufio.NewWriter(conn)),
	}
}

// Flush flushes any buffered outbound data.
func (c *Conn) Flush() error {
	return c.io.Flush()
}

// Close flushes and closes the underlying connection.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// SendUint32 sends a uint32 value.
func (c *Conn) SendUint32(val int) error {
	err := binary.Write(c.io, binary.BigEndian, uint32(val))
	if err != nil {
		return err
	}
	c.Stats.Sent += 4
	return nil
}

// SendData sends a length-prefixed byte slice.
func (c *Conn) SendData(val []byte) error {
	if err := c.SendUint32(len(val)); err != nil {
		return err
	}
	_, err := c.io.Write(val)
	if err != nil {
		return err
	}
	c.Stats.Sent += uint64(len(val))
	return nil
}

// ReceiveUint32 receives a uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	var buf [4]byte

	_, err := io.ReadFull(c.io, buf[:])
	if err != nil {
		return 0, err
	}
	c.Stats.Recvd += 4

	return int(binary.BigEndian.Uint32(buf[:])), nil
}

// ReceiveData receives a length-prefixed byte slice.
func (c *Conn) ReceiveData() ([]byte, error) {
	length, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}

	result := make([]byte, length)
	_, err = io.ReadFull(c.io, result)
	if err != nil {
		return nil, err
	}
	c.Stats.Recvd += uint64(length)

	return result, nil
}
