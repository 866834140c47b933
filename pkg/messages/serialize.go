package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cbodonnell/sus/pkg/game/types"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// SerializeObservation encodes an observation as zstd-compressed JSON.
func SerializeObservation(obs *types.Observation) ([]byte, error) {
	b, err := json.Marshal(obs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal observation: %v", err)
	}
	return compress(b)
}

func DeserializeObservation(data []byte) (*types.Observation, error) {
	b, err := decompress(data)
	if err != nil {
		return nil, err
	}
	obs := &types.Observation{}
	if err := json.Unmarshal(b, obs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observation: %v", err)
	}
	return obs, nil
}

func compress(b []byte) ([]byte, error) {
	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress payload: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed payload: %v", err)
	}
	return b, nil
}

// StateSummary table slots
const (
	summarySlotPhase = iota
	summarySlotRound
	summarySlotAlivePlayers
	summarySlotAliveImpostors
	summarySlotAliveCrew
	summarySlotWinner
	summarySlotWinReason
	summarySlotCount
)

// SerializeStateSummary encodes a summary as a flatbuffer table.
func SerializeStateSummary(summary types.StateSummary) []byte {
	builder := flatbuffers.NewBuilder(32)
	builder.StartObject(summarySlotCount)
	builder.PrependUint8Slot(summarySlotPhase, uint8(summary.Phase), 0)
	builder.PrependInt32Slot(summarySlotRound, int32(summary.Round), 0)
	builder.PrependInt32Slot(summarySlotAlivePlayers, int32(summary.AlivePlayers), 0)
	builder.PrependInt32Slot(summarySlotAliveImpostors, int32(summary.AliveImpostors), 0)
	builder.PrependInt32Slot(summarySlotAliveCrew, int32(summary.AliveCrew), 0)
	builder.PrependUint8Slot(summarySlotWinner, uint8(summary.Winner), 0)
	builder.PrependUint8Slot(summarySlotWinReason, uint8(summary.WinReason), 0)
	builder.Finish(builder.EndObject())
	return builder.FinishedBytes()
}

func DeserializeStateSummary(b []byte) (summary types.StateSummary, err error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return summary, fmt.Errorf("failed to deserialize state summary: buffer too short")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to deserialize state summary: %v", r)
		}
	}()

	tab := &flatbuffers.Table{Bytes: b, Pos: flatbuffers.GetUOffsetT(b)}
	summary.Phase = types.Phase(summaryUint8(tab, summarySlotPhase))
	summary.Round = int(summaryInt32(tab, summarySlotRound))
	summary.AlivePlayers = int(summaryInt32(tab, summarySlotAlivePlayers))
	summary.AliveImpostors = int(summaryInt32(tab, summarySlotAliveImpostors))
	summary.AliveCrew = int(summaryInt32(tab, summarySlotAliveCrew))
	summary.Winner = types.Role(summaryUint8(tab, summarySlotWinner))
	summary.WinReason = types.WinReason(summaryUint8(tab, summarySlotWinReason))
	return summary, nil
}

func summaryVOffset(slot int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*slot)
}

func summaryUint8(tab *flatbuffers.Table, slot int) uint8 {
	if o := flatbuffers.UOffsetT(tab.Offset(summaryVOffset(slot))); o != 0 {
		return tab.GetUint8(o + tab.Pos)
	}
	return 0
}

func summaryInt32(tab *flatbuffers.Table, slot int) int32 {
	if o := flatbuffers.UOffsetT(tab.Offset(summaryVOffset(slot))); o != 0 {
		return tab.GetInt32(o + tab.Pos)
	}
	return 0
}
