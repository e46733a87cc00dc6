/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package countspace

import (
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trigCounter(ctx *SimContext, region RegionID) *Counter {
	target := Target{Kind: TargetSpecies, ID: 1}
	key := CounterKey{Target: target, Region: region, Flavor: TRIG}
	return ctx.Counters.GetOrCreate(key, ctx.RegionHash, false)
}

func TestTriggerRecordFormatHitRecord(t *testing.T) {
	r := TriggerRecord{Kind: HitRecord, IterTime: 1.5, Loc: mgl64.Vec3{1, 2, 3}, Orient: OrientPos, Name: "rxn1"}
	assert.Equal(t, "1.5 1 2 3 1 rxn1", r.Format())
}

func TestTriggerRecordFormatContentsRecord(t *testing.T) {
	r := TriggerRecord{Kind: ContentsRecord, IterTime: 1, Loc: mgl64.Vec3{0, 0, 0}, Orient: OrientNeg, Count: 5, Name: "molA"}
	assert.Equal(t, "1 0 0 0 -1 5 molA", r.Format())
}

func TestTriggerRecordFormatReactionRecordWithExactTime(t *testing.T) {
	r := TriggerRecord{Kind: ReactionRecord, IterTime: 1, HasExactTime: true, ExactTime: 2.25, Loc: mgl64.Vec3{1, 1, 1}, Name: "rxnB"}
	assert.Equal(t, "1 2.25 1 1 1 rxnB", r.Format())
}

func TestDispatchTriggerMatchesReportTypeAndAppendsRecord(t *testing.T) {
	ctx, _ := newTestContext(t)
	region := ctx.AddRegion("r", IsTriggerRegion)
	c := trigCounter(ctx, region.ID)
	l := &TriggerListener{Name: "hit-listener", ReportType: ReportFrontHits, BufferSize: 10, FileID: "hits.txt"}
	RegisterTriggerListener(c, l)

	err := DispatchTrigger(ctx, c, ReportFrontHits, 1.5, mgl64.Vec3{1, 2, 3}, OrientPos, 1, "")
	require.NoError(t, err)

	require.Len(t, l.buffer, 1)
	assert.Equal(t, HitRecord, l.buffer[0].Kind)
	assert.Equal(t, 1, l.buffer[0].Count)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, c.Trig.Loc)
}

func TestDispatchTriggerIgnoresNonMatchingReportType(t *testing.T) {
	ctx, _ := newTestContext(t)
	region := ctx.AddRegion("r", IsTriggerRegion)
	c := trigCounter(ctx, region.ID)
	l := &TriggerListener{Name: "rxn-listener", ReportType: ReportRxns, BufferSize: 10, FileID: "rxn.txt"}
	RegisterTriggerListener(c, l)

	err := DispatchTrigger(ctx, c, ReportFrontHits, 0, mgl64.Vec3{}, OrientAny, 1, "")
	require.NoError(t, err)
	assert.Empty(t, l.buffer)
}

func TestDispatchTriggerAllHitsSignFlipsOnBackDirection(t *testing.T) {
	ctx, _ := newTestContext(t)
	region := ctx.AddRegion("r", IsTriggerRegion)
	c := trigCounter(ctx, region.ID)
	l := &TriggerListener{Name: "all-hits", ReportType: ReportAllHits, BufferSize: 10, FileID: "all.txt"}
	RegisterTriggerListener(c, l)

	require.NoError(t, DispatchTrigger(ctx, c, ReportBackHits, 0, mgl64.Vec3{}, OrientAny, 1, ""))
	require.Len(t, l.buffer, 1)
	assert.Equal(t, -1, l.buffer[0].Count, "a back-direction hit reported under ALL_HITS must carry a negative count")
}

func TestDispatchTriggerFlushesWhenBufferFull(t *testing.T) {
	ctx, _ := newTestContext(t)
	region := ctx.AddRegion("r", IsTriggerRegion)
	c := trigCounter(ctx, region.ID)
	l := &TriggerListener{Name: "full", ReportType: ReportFrontHits, BufferSize: 2, FileID: "full.txt"}
	RegisterTriggerListener(c, l)

	require.NoError(t, DispatchTrigger(ctx, c, ReportFrontHits, 0, mgl64.Vec3{}, OrientAny, 1, ""))
	assert.Len(t, l.buffer, 1)
	require.NoError(t, DispatchTrigger(ctx, c, ReportFrontHits, 1, mgl64.Vec3{}, OrientAny, 1, ""))
	assert.Empty(t, l.buffer, "the buffer must be flushed and cleared once it reaches BufferSize")

	tw := ctx.Output.(*TextOutputWriter)
	_, err := tw.FlushAll()
	require.NoError(t, err)
	data, err := os.ReadFile(tw.dir + "/full.txt")
	require.NoError(t, err)
	assert.Equal(t, "0 0 0 0 0 full\n1 0 0 0 0 full\n", string(data))
}

func TestFlushPeriodicSkipsEmptyListeners(t *testing.T) {
	ctx, _ := newTestContext(t)
	region := ctx.AddRegion("r", IsTriggerRegion)
	c := trigCounter(ctx, region.ID)
	full := &TriggerListener{Name: "full", ReportType: ReportFrontHits, BufferSize: 100, FileID: "periodic.txt"}
	empty := &TriggerListener{Name: "empty", ReportType: ReportFrontHits, BufferSize: 100, FileID: "periodic2.txt"}
	RegisterTriggerListener(c, full)
	RegisterTriggerListener(c, empty)

	require.NoError(t, DispatchTrigger(ctx, c, ReportFrontHits, 0, mgl64.Vec3{}, OrientAny, 1, ""))
	require.Len(t, full.buffer, 1)

	require.NoError(t, FlushPeriodic(ctx, []*TriggerListener{full, empty}))
	assert.Empty(t, full.buffer)
	assert.Empty(t, empty.buffer)
}

func TestEmergencyFlushWalksEveryTrigCounterInTheTable(t *testing.T) {
	ctx, _ := newTestContext(t)
	regionA := ctx.AddRegion("a", IsTriggerRegion)
	regionB := ctx.AddRegion("b", IsTriggerRegion)
	cA := trigCounter(ctx, regionA.ID)
	lA := &TriggerListener{Name: "a-listener", ReportType: ReportFrontHits, BufferSize: 100, FileID: "a.txt"}
	RegisterTriggerListener(cA, lA)

	target := Target{Kind: TargetSpecies, ID: 2}
	cB := ctx.Counters.GetOrCreate(CounterKey{Target: target, Region: regionB.ID, Flavor: TRIG}, ctx.RegionHash, false)
	lB := &TriggerListener{Name: "b-listener", ReportType: ReportFrontHits, BufferSize: 100, FileID: "b.txt"}
	RegisterTriggerListener(cB, lB)

	require.NoError(t, DispatchTrigger(ctx, cA, ReportFrontHits, 0, mgl64.Vec3{}, OrientAny, 1, ""))
	require.NoError(t, DispatchTrigger(ctx, cB, ReportFrontHits, 0, mgl64.Vec3{}, OrientAny, 1, ""))
	require.Len(t, lA.buffer, 1)
	require.Len(t, lB.buffer, 1)

	EmergencyFlush(ctx)
	assert.Empty(t, lA.buffer)
	assert.Empty(t, lB.buffer)
}
