package transport

import "testing"

func TestCanTransition_ForwardPath(t *testing.T) {
	path := []string{
		StatusPending, StatusConfirmed, StatusAwaitingPayment,
		StatusPaid, StatusProcessing, StatusShipped, StatusDelivered,
	}

	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestCanTransition_CancellableBeforeDelivery(t *testing.T) {
	for _, status := range []string{
		StatusPending, StatusConfirmed, StatusAwaitingPayment,
		StatusPaid, StatusProcessing, StatusShipped,
	} {
		if !CanTransition(status, StatusCancelled) {
			t.Fatalf("expected %s to be cancellable", status)
		}
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, terminal := range []string{StatusDelivered, StatusCancelled} {
		for to := range transitions {
			if CanTransition(terminal, to) {
				t.Fatalf("expected %s to be terminal, but %s -> %s allowed", terminal, terminal, to)
			}
		}
	}
}

func TestCanTransition_NoSkippingBackwards(t *testing.T) {
	if CanTransition(StatusShipped, StatusPending) {
		t.Fatalf("expected shipped -> pending to be rejected")
	}
	if CanTransition(StatusPaid, StatusConfirmed) {
		t.Fatalf("expected paid -> confirmed to be rejected")
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(StatusAwaitingPayment) {
		t.Fatalf("expected awaiting_payment to be valid")
	}
	if ValidStatus("misplaced") {
		t.Fatalf("expected misplaced to be invalid")
	}
}
