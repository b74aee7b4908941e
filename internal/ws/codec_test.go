package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/benbeisheim/chess-relay/internal/model"
)

func TestEncode_BoardShape(t *testing.T) {
	data, err := Encode(Board{Board: model.NewBoard(), Check: true})
	require.NoError(t, err)

	var raw struct {
		Variant string `json:"variant"`
		Fields  []struct {
			Color     string              `json:"color"`
			Board     [][]json.RawMessage `json:"board"`
			Check     bool                `json:"check"`
			Checkmate bool                `json:"checkmate"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Board", raw.Variant)
	require.Len(t, raw.Fields, 1)
	assert.Equal(t, "White", raw.Fields[0].Color)
	assert.True(t, raw.Fields[0].Check)
	assert.False(t, raw.Fields[0].Checkmate)
	require.Len(t, raw.Fields[0].Board, 8)
	assert.Equal(t, "null", string(raw.Fields[0].Board[4][4]))
	assert.JSONEq(t,
		`{"piece_type":"King","color":"White","cell":{"row":7,"col":4}}`,
		string(raw.Fields[0].Board[7][4]))
}

func TestEncode_SimpleVariants(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Connect{Addr: "1.2.3.4:5"}, `{"variant":"Connect","fields":["1.2.3.4:5"]}`},
		{Disconnect{Addr: "p1"}, `{"variant":"Disconnect","fields":["p1"]}`},
		{Msg{User: "White", Text: "gg"}, `{"variant":"Msg","fields":["White","gg"]}`},
		{Moves{}, `{"variant":"Moves","fields":[[]]}`},
		{Moves{Cells: []model.Cell{{Row: 5, Col: 4}}}, `{"variant":"Moves","fields":[[{"row":5,"col":4}]]}`},
		{Move{From: model.Cell{Row: 6, Col: 4}, To: model.Cell{Row: 4, Col: 4}},
			`{"variant":"Move","fields":[{"row":6,"col":4},{"row":4,"col":4}]}`},
		{Select{Addr: "p1", Cell: model.Cell{Row: 1, Col: 2}},
			`{"variant":"Select","fields":["p1",{"row":1,"col":2}]}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.action.Variant()), func(t *testing.T) {
			data, err := Encode(tt.action)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			back, err := Decode(data)
			require.NoError(t, err)
			if m, ok := tt.action.(Moves); ok && m.Cells == nil {
				assert.Equal(t, Moves{Cells: []model.Cell{}}, back)
				return
			}
			assert.Equal(t, tt.action, back)
		})
	}
}

func TestEncode_NilBoard(t *testing.T) {
	_, err := Encode(Board{})
	assert.Error(t, err)
}

func TestBoardRoundTrip_StartingPosition(t *testing.T) {
	b := model.NewBoard()
	data, err := Encode(Board{Board: b, Check: false, Checkmate: false})
	require.NoError(t, err)

	a, err := Decode(data)
	require.NoError(t, err)
	got, ok := a.(Board)
	require.True(t, ok)
	assert.Equal(t, b, got.Board)
}

// TestBoardRoundTrip_Property encodes positions reached by random legal play
// and checks the decoded grid matches cell for cell.
func TestBoardRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := model.NewBoard()
		plies := rapid.IntRange(0, 40).Draw(rt, "plies")
		for i := 0; i < plies; i++ {
			moves := b.LegalMovesFor(b.Active)
			if len(moves) == 0 {
				break
			}
			m := moves[rapid.IntRange(0, len(moves)-1).Draw(rt, "move")]
			b.ApplyMove(m.From, m.To)
			b.SwitchTurn()
		}
		check := b.IsInCheck(b.Active)
		mate := b.IsCheckmate(b.Active)

		data, err := Encode(Board{Board: b, Check: check, Checkmate: mate})
		require.NoError(rt, err)
		a, err := Decode(data)
		require.NoError(rt, err)
		got := a.(Board)

		assert.Equal(rt, b.Active, got.Board.Active)
		assert.Equal(rt, check, got.Check)
		assert.Equal(rt, mate, got.Checkmate)
		for r := 0; r < 8; r++ {
			for c := 0; c < 8; c++ {
				assert.Equal(rt, b.Grid[r][c], got.Board.Grid[r][c], "cell (%d,%d)", r, c)
			}
		}
	})
}

func TestDecode_RejectsBadBoards(t *testing.T) {
	mismatch := `{"variant":"Board","fields":[{"color":"White","board":[[{"piece_type":"Rook","color":"Black","cell":{"row":3,"col":3}}]],"check":false,"checkmate":false}]}`
	_, err := Decode([]byte(mismatch))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`{"variant":"Board","fields":[]}`))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`{"variant":"Nope","fields":[]}`))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`{"variant":"Moves","fields":[[{"row":9,"col":0}]]}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParsePayload(t *testing.T) {
	a, err := ParsePayload([]byte(`{"variant":"Select","fields":["6","4"]}`))
	require.NoError(t, err)
	assert.Equal(t, Select{Cell: model.Cell{Row: 6, Col: 4}}, a)

	a, err = ParsePayload([]byte(`{"variant":"Move","fields":["6","4","4","4"]}`))
	require.NoError(t, err)
	assert.Equal(t, Move{From: model.Cell{Row: 6, Col: 4}, To: model.Cell{Row: 4, Col: 4}}, a)

	a, err = ParsePayload([]byte(`{"variant":"Msg","fields":["alice","hello"]}`))
	require.NoError(t, err)
	assert.Equal(t, Msg{User: "alice", Text: "hello"}, a)
}

func TestParsePayload_Rejects(t *testing.T) {
	for name, in := range map[string]string{
		"not json":         `{"variant":`,
		"unknown variant":  `{"variant":"Castle","fields":[]}`,
		"server-only":      `{"variant":"Board","fields":[]}`,
		"connect spoof":    `{"variant":"Connect","fields":["1.1.1.1:1"]}`,
		"short select":     `{"variant":"Select","fields":["6"]}`,
		"long move":        `{"variant":"Move","fields":["6","4","4","4","1"]}`,
		"non integer":      `{"variant":"Select","fields":["six","4"]}`,
		"negative":         `{"variant":"Select","fields":["-1","4"]}`,
		"out of range":     `{"variant":"Move","fields":["6","4","8","4"]}`,
		"msg missing text": `{"variant":"Msg","fields":["alice"]}`,
		"numeric fields":   `{"variant":"Select","fields":[6,4]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePayload([]byte(in))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestParsePayload_NeverPanics(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		a, err := ParsePayload(data)
		if err != nil {
			assert.ErrorIs(rt, err, ErrDecode)
			return
		}
		assert.NotNil(rt, a)
	})
}
