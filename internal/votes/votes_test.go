package votes

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/quivotequoi/internal/model"
)

const legacyXML = `<?xml version="1.0" encoding="UTF-8"?>
<PV.RollCallVoteResults>
<Sitting>
<Vote.Results>
<Vote.Result>
<Vote.Result.Text.Title>Rapport Doe</Vote.Result.Text.Title>
<Vote.Result.Description.Text>Rapport: Jane Doe (A9-0100/2023)</Vote.Result.Description.Text>
<Vote.Result.Table.Results>
<TABLE>
<COLGROUP COLNB="6"/>
<TBODY>
<TR><TD COLNAME="C1">Objet</TD><TD COLNAME="C2">Am n°</TD><TD COLNAME="C3">Auteur</TD><TD COLNAME="C4">AN, etc.</TD><TD COLNAME="C5">Vote</TD><TD COLNAME="C6">Votes par AN/VE - observations</TD></TR>
<TR><TD COLNAME="C1" ROWSPAN="2">Article 5</TD><TD COLNAME="C2">12</TD><TD COLNAME="C3">Renew</TD><TD COLNAME="C4">AN</TD><TD COLNAME="C5">+</TD><TD COLNAME="C6">300, 50, 10</TD></TR>
<TR><TD COLNAME="C2">13</TD><TD COLNAME="C3">commission</TD><TD COLNAME="C4">div</TD></TR>
<TR><TD COLNAME="C1">Considérant A</TD><TD COLNAME="C5">-</TD></TR>
<TR><TD COLNAME="C1">Proposition de résolution</TD><TD COLNAME="C4">AN 2</TD><TD COLNAME="C5">+</TD><TD COLNAME="C6">400, 100</TD></TR>
<TR><TD COLNAME="C1">Proposition de résolution</TD><TD COLNAME="C4">AN 2</TD><TD COLNAME="C5">+</TD><TD COLNAME="C6">400, 100</TD></TR>
</TBODY>
</TABLE>
</Vote.Result.Table.Results>
</Vote.Result>
<Vote.Result>
<Vote.Result.Text.Title>Rapport Roe</Vote.Result.Text.Title>
<Vote.Result.Description.Text>Rapport: John Roe (<B>A9-0337/2023</B>)</Vote.Result.Description.Text>
<Vote.Result.Table.Results>
<TABLE>
<COLGROUP COLNB="2"/>
<TBODY>
<TR><TD COLNAME="C1">Objet</TD><TD COLNAME="C2">Vote</TD></TR>
<TR><TD COLNAME="C1">Article 16, § 3 TUE</TD><TD COLNAME="C2">+</TD></TR>
</TBODY>
</TABLE>
</Vote.Result.Table.Results>
</Vote.Result>
<Vote.Result>
<Vote.Result.Text.Title>Without table</Vote.Result.Text.Title>
</Vote.Result>
</Vote.Results>
</Sitting>
</PV.RollCallVoteResults>`

const currentXML = `<?xml version="1.0" encoding="UTF-8"?>
<votes>
<vote>
<label>Rapport: John Roe (A9-0200/2024)</label>
<votings>
<voting type="TITLE"><title>Heading</title></voting>
<voting result="+" type="AMENDMENT">
<title>§ 1</title><label/><amendmentSubject/>
<amendmentNumber>7</amendmentNumber>
<amendmentAuthor>The Left</amendmentAuthor>
<rcv><value>AN</value></rcv>
<observations>250, 200, 30</observations>
</voting>
<voting result="↓"><title>§ 2</title><amendmentNumber>8</amendmentNumber></voting>
<voting><title>No result</title></voting>
<voting result="-"><title>Proposition de résolution</title><observations>10, 20</observations></voting>
</votings>
</vote>
</votes>`

const rollCallXML = `<?xml version="1.0" encoding="UTF-8"?>
<PV.RollCallVoteResults>
<RollCallVote.Result Identifier="101">
<RollCallVote.Description.Text>A9-0200/2024 -  John Roe
 - Am 7</RollCallVote.Description.Text>
<Result.For Number="250"><Result.PoliticalGroup.List Identifier="PPE"><PoliticalGroup.Member.Name PersId="1">Alpha</PoliticalGroup.Member.Name><PoliticalGroup.Member.Name>Beta</PoliticalGroup.Member.Name></Result.PoliticalGroup.List></Result.For>
<Result.Against Number="200"><Result.PoliticalGroup.List Identifier="RE"><PoliticalGroup.Member.Name PersId="99">Unknown</PoliticalGroup.Member.Name></Result.PoliticalGroup.List></Result.Against>
<Result.Abstention Number="30"><Result.PoliticalGroup.List Identifier="S&amp;D"><PoliticalGroup.Member.Name PersId="3">Gamma</PoliticalGroup.Member.Name></Result.PoliticalGroup.List></Result.Abstention>
</RollCallVote.Result>
<RollCallVote.Result Identifier="101">
<RollCallVote.Description.Text>A9-0200/2024 - Am 7 repeated</RollCallVote.Description.Text>
</RollCallVote.Result>
<RollCallVote.Result Identifier="102">
<RollCallVote.Description.Text>Ordre du jour de mardi</RollCallVote.Description.Text>
</RollCallVote.Result>
<RollCallVote.Result Identifier="103">
<RollCallVote.Description.Text>Proposition de résolution (B9-0001/2024) 2024/0001(RSP)</RollCallVote.Description.Text>
<Result.For Number="400"/>
</RollCallVote.Result>
</PV.RollCallVoteResults>`

type fakeMembers map[string]int

func (f fakeMembers) ByLastName(name string) (int, bool) {
	id, ok := f[name]
	return id, ok
}

func (f fakeMembers) Has(id int) bool {
	for _, v := range f {
		if v == id {
			return true
		}
	}
	return false
}

var (
	sittingDate = time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	voteDay     = time.Date(2023, 11, 21, 0, 0, 0, 0, time.UTC)
)

func newContext() *ParseContext {
	pc := NewParseContext(model.Sitting{Date: sittingDate, Days: []time.Time{sittingDate, voteDay}}, voteDay)
	pc.URL = "https://example.org/PV-9-2023-11-21-VOT_FR.xml"
	pc.Members = fakeMembers{"Alpha": 1, "Beta": 2, "Gamma": 3}
	return pc
}

// TestSchemaFor tests schema dispatch on the sitting date.
func TestSchemaFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		day  time.Time
		want Schema
	}{
		{time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC), SchemaLegacy},
		{time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), SchemaCurrent},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), SchemaCurrent},
	}
	for _, tt := range tests {
		if got := SchemaFor(tt.day, DefaultCutoff); got != tt.want {
			t.Errorf("SchemaFor(%s): expected %s, got %s", tt.day.Format(time.DateOnly), tt.want, got)
		}
	}

	if _, ok := SchemaLegacy.Parser().(LegacyParser); !ok {
		t.Error("expected LegacyParser for legacy schema")
	}
	if _, ok := SchemaCurrent.Parser().(CurrentParser); !ok {
		t.Error("expected CurrentParser for current schema")
	}
}

// TestLegacyParser tests the Vote.Results schema.
func TestLegacyParser(t *testing.T) {
	t.Parallel()

	pc := newContext()
	got, err := LegacyParser{}.Parse(pc, strings.NewReader(legacyXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}

	am := got[0]
	if am.Doc != "A9-0100/2023" || am.Type != model.VoteTypeAmendment || model.Deref(am.Amendment) != "12" {
		t.Errorf("unexpected amendment record %+v", am)
	}
	if !am.RollCall || am.Result != model.ResultAdopted {
		t.Errorf("expected adopted roll-call vote, got rcv=%v result=%s", am.RollCall, am.Result)
	}
	if am.Tally == nil || *am.Tally != (model.Tally{300, 50, 10}) {
		t.Errorf("expected tally 300,50,10, got %v", am.Tally)
	}
	if am.Author == nil || am.Author.Kind != model.AuthorGroup || am.Author.Groups[0] != "RE" {
		t.Errorf("unexpected author %+v", am.Author)
	}
	if !am.SittingDate.Equal(sittingDate) || !am.Date.Equal(voteDay) {
		t.Errorf("unexpected dates %s / %s", am.SittingDate, am.Date)
	}

	ignored := got[1]
	if ignored.Subject != "Considérant A" || ignored.Type != model.VoteTypeIgnore || ignored.Result != model.ResultRejected {
		t.Errorf("unexpected record %+v", ignored)
	}

	res := got[2]
	if res.Subject != "Proposition de résolution" || res.Type != model.VoteTypeAdoption {
		t.Errorf("unexpected resolution record %+v", res)
	}
	if res.Tally != nil {
		t.Errorf("expected no tally from two counts, got %v", res.Tally)
	}
	if model.Deref(res.Split) != "2" {
		t.Errorf("expected split 2, got %s", model.Deref(res.Split))
	}

	t.Run("rows already seen in the sitting are skipped", func(t *testing.T) {
		again, err := LegacyParser{}.Parse(pc, strings.NewReader(legacyXML))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != 0 {
			t.Errorf("expected no records on second pass, got %d", len(again))
		}
	})
}

// TestCurrentParser tests the votes/vote/voting schema.
func TestCurrentParser(t *testing.T) {
	t.Parallel()

	got, err := CurrentParser{}.Parse(newContext(), strings.NewReader(currentXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(got), got)
	}

	first := got[0]
	want := model.Vote{
		SittingDate: sittingDate,
		Date:        voteDay,
		Doc:         "A9-0200/2024",
		Subject:     "§ 1",
		Author:      &model.Author{Kind: model.AuthorGroup, Groups: []string{"GUE/NGL"}},
		Type:        model.VoteTypeAmendment,
		Amendment:   model.Ptr("7"),
		RollCall:    true,
		Result:      model.ResultAdopted,
		Tally:       &model.Tally{250, 200, 30},
		URL:         "https://example.org/PV-9-2023-11-21-VOT_FR.xml",
		Source:      model.SourceMinutes,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if got[1].Result != model.ResultLapsed || got[1].RollCall {
		t.Errorf("unexpected lapsed record %+v", got[1])
	}
	if got[2].Type != model.VoteTypeAdoption || got[2].Result != model.ResultRejected {
		t.Errorf("unexpected adoption record %+v", got[2])
	}
}

// TestRollCallParser tests the roll-call results document.
func TestRollCallParser(t *testing.T) {
	t.Parallel()

	pc := newContext()
	pc.URL = "https://example.org/PV-9-2023-11-21-RCV_FR.xml"
	got, err := RollCallParser{}.Parse(pc, strings.NewReader(rollCallXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(got), got)
	}

	am := got[0]
	if am.ID != "101" || am.Doc != "A9-0200/2024" || am.Type != model.VoteTypeAmendment || model.Deref(am.Amendment) != "7" {
		t.Errorf("unexpected record %+v", am)
	}
	if am.SubjectRollCall != "A9-0200/2024 - John Roe - Am 7" {
		t.Errorf("expected collapsed title, got %q", am.SubjectRollCall)
	}
	if am.RollCallURL != "https://example.org/PV-9-2023-11-21-RCV_FR.html" {
		t.Errorf("unexpected url %s", am.RollCallURL)
	}
	wantPositions := map[int]model.Position{1: model.PositionFor, 2: model.PositionFor, 3: model.PositionAbstention}
	if diff := cmp.Diff(wantPositions, am.Positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	if *am.Tally != (model.Tally{250, 200, 30}) {
		t.Errorf("unexpected tally %v", am.Tally)
	}

	res := got[1]
	if model.Deref(res.Procedure) != "2024/0001(RSP)" || res.Type != model.VoteTypeAdoption {
		t.Errorf("unexpected record %+v", res)
	}
	if *res.Tally != (model.Tally{400, 0, 0}) {
		t.Errorf("expected missing counts to be zero, got %v", res.Tally)
	}
}

// TestParseContextRequiresDedup tests the dedup set requirement.
func TestParseContextRequiresDedup(t *testing.T) {
	t.Parallel()

	pc := &ParseContext{}
	for _, p := range []MinutesParser{LegacyParser{}, CurrentParser{}} {
		if _, err := p.Parse(pc, strings.NewReader("<votes/>")); !errors.Is(err, ErrNoDedupSet) {
			t.Errorf("expected ErrNoDedupSet, got %v", err)
		}
	}
}

// TestUnexpectedRoot tests schema mismatch.
func TestUnexpectedRoot(t *testing.T) {
	t.Parallel()

	if _, err := (LegacyParser{}).Parse(newContext(), strings.NewReader(currentXML)); !errors.Is(err, ErrUnexpectedRoot) {
		t.Errorf("expected ErrUnexpectedRoot, got %v", err)
	}
}
