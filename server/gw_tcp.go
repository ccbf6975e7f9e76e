package server

import (
	"context"
	"io"
	"net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmpunzalan/kurakot/comms"
)

func runTcpGateway(ctx context.Context, server *server, addr string) error {
	log := log.With().Str("gw", "tcp").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("comms listening on tcp:%v", ln.Addr())

	m := &tcpManager{
		server: server,
		log:    log,
	}
	go func() {
		err := m.Serve(ln)
		m.log.Info().Err(err).Msg("server return")
	}()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	return nil
}

type tcpManager struct {
	server *server
	log    zerolog.Logger
}

func (m *tcpManager) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		m.manageTcpConnection(conn)
	}
}

func (m *tcpManager) manageTcpConnection(conn net.Conn) {
	addr := conn.RemoteAddr()

	log := m.log.With().Str("client", addr.String()).Logger()
	log.Info().Msgf("connecting")

	downCh := make(chan interface{}, 100)

	upStream := comms.NewDecoder(conn)
	dnStream := comms.NewEncoder(conn)

	go func() {
		var gameId, playerId string

		msg1, err := upStream.Decode()
		if err != nil {
			log.Info().Err(err).Msg("first message error")
			return
		}

		fields := msg1.Head.Fields()
		if len(fields) != 2 || fields[0] != "connect" {
			log.Info().Msg("bad first message head")
			return
		}

		ccode := fields[1]
		gameId, playerId, colour, err := comms.DecodeConnectString(ccode)
		if err != nil {
			log.Info().Msg("bad connect code")
			return
		}

		err = m.server.Connect(gameId, playerId, colour, clientBundle{downCh})
		if err != nil {
			log.Info().Err(err).Msg("connect error")
			dnStream.Encode("connected", comms.ConnectResponse{Err: comms.WrapError(err)})
			return
		}

		dnStream.Encode("connected", comms.ConnectResponse{
			Game: gameId,
			Name: playerId,
		})

		go func() {
			// read downCh, write to conn
			for down := range downCh {
				msg, err := encodeDown(down)
				if err != nil {
					log.Info().Err(err).Msg("encode error")
					break
				}
				err = dnStream.Send(msg)
				if err != nil {
					log.Info().Err(err).Msg("send error")
					break
				}
			}
		}()

		for {
			// read conn, despatch into server
			msg, err := upStream.Decode()
			if err != nil {
				if err != io.EOF {
					log.Info().Err(err).Msg("decode error")
				}
				break
			}
			log.Info().Msgf("received: %s %s", msg.Head, string(msg.Data))

			in, err := decodeUp(gameId, playerId, msg)
			if err != nil {
				log.Info().Err(err).Msg("bad message from client")
				continue
			}
			m.server.coreCh <- in
		}

		m.server.coreCh <- disconnectMsg{gameId, playerId}
	}()
}
