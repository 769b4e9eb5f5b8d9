package bdd

import "github.com/cucumber/godog"

// godog run ./tests/bdd/featureFiles/workspace_sync.feature
// Use of godog CLI is deprecated, please use *testing.T instead.
// See https://github.com/cucumber/godog/discussions/478 for details.
// Feature: 工作區同步
//   In order to keep conversations consistent across devices
//   As a signed-in member
//   I want my local view to follow realtime events and paginated fetches

func memberSignedInWithRealtime(arg1 string) error {
	return godog.ErrPending
}

func workspaceWithChannelExists(arg1, arg2 string) error {
	return godog.ErrPending
}

func channelLastSeenIs(arg1 string, arg2 int) error {
	return godog.ErrPending
}

func memberSwitchesToChannel(arg1, arg2 string) error {
	return godog.ErrPending
}

func messageListSortedByCreatedAt() error {
	return godog.ErrPending
}

func initialAnchorIsFirstUnread() error {
	return godog.ErrPending
}

func messageLoaded(arg1 string) error {
	return godog.ErrPending
}

func editEventArrivesTwice(arg1 string) error {
	return godog.ErrPending
}

func contentEqualsLastEvent(arg1 string) error {
	return godog.ErrPending
}

func messageMarkedResolved(arg1 string) error {
	return godog.ErrPending
}

func replyAddEventArrives(arg1 string) error {
	return godog.ErrPending
}

func messageNoLongerResolved(arg1 string) error {
	return godog.ErrPending
}

func memberViewingChannel(arg1, arg2 string) error {
	return godog.ErrPending
}

func realtimeDropsAndReconnects() error {
	return godog.ErrPending
}

func roomsRejoined() error {
	return godog.ErrPending
}

func currentChannelPageRefetched() error {
	return godog.ErrPending
}
