package events

import "testing"

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(CampaignChanged{CampaignID: "camp-1"})

	select {
	case e := <-ch:
		if e.CampaignID != "camp-1" {
			t.Errorf("CampaignID = %q, want %q", e.CampaignID, "camp-1")
		}
	default:
		t.Fatal("subscriber did not receive event")
	}
}

func TestLateSubscriberMissesEvent(t *testing.T) {
	bus := NewBus()

	bus.Publish(CampaignChanged{CampaignID: "camp-1"})

	ch, cancel := bus.Subscribe()
	defer cancel()

	select {
	case e := <-ch:
		t.Errorf("late subscriber received %+v, want nothing", e)
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	cancel()
	cancel() // double cancel is safe

	bus.Publish(CampaignChanged{CampaignID: "camp-1"})

	if e, ok := <-ch; ok {
		t.Errorf("cancelled subscriber received %+v", e)
	}
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Fill the buffer; further publishes must not block.
	bus.Publish(CampaignChanged{CampaignID: "first"})
	bus.Publish(CampaignChanged{CampaignID: "dropped"})

	e := <-ch
	if e.CampaignID != "first" {
		t.Errorf("CampaignID = %q, want %q", e.CampaignID, "first")
	}
	select {
	case e := <-ch:
		t.Errorf("unexpected second event %+v", e)
	default:
	}
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(CampaignChanged{CampaignID: "camp-2"})

	for i, ch := range []<-chan CampaignChanged{ch1, ch2} {
		select {
		case e := <-ch:
			if e.CampaignID != "camp-2" {
				t.Errorf("subscriber %d got %q, want camp-2", i, e.CampaignID)
			}
		default:
			t.Errorf("subscriber %d did not receive event", i)
		}
	}
}
