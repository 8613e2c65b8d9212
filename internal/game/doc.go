// Package game implements the authoritative Texas Hold'em state machine
// driven by the autonomous engine.
//
// The main type is State, the single mutable aggregate for the hand in
// progress: seats, pot, board, the per-street bet maximum and the index of
// the seat whose turn it is. Seats outlive hands and carry their stack from
// one State to the next.
//
// # Basic Usage
//
//	st, blinds, err := game.NewHand(seats, dealer, rules, poker.NewDeck(rng))
//	for {
//	    step := st.NextStep()
//	    switch step.Kind {
//	    case game.StepAct:
//	        st.Apply(step.Seat, decision)
//	        st.AdvanceTurn()
//	    case game.StepRoundComplete:
//	        st.AdvanceStreet()
//	    case game.StepEarlyShowdown:
//	        st.Resolve(comparator)
//	    }
//	}
//
// # Architecture
//
// State is split by concern across files:
//   - ledger.go: call/raise legality, clamping and blind posting
//   - scheduler.go: who acts next and when a betting round is complete
//   - stage.go: hand start and street advancement
//   - showdown.go: winner selection and pot award
//
// State is not safe for concurrent use. The engine owns it exclusively and
// publishes immutable Snapshots to everyone else.
package game
