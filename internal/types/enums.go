package types

type Action string

const (
	ActionNone        Action = ""
	ActionEnable      Action = "enable"
	ActionDisable     Action = "disable"
	ActionRefreshKeys Action = "refresh-keys"
)

type Channel string

const (
	ChannelStable                Channel = "stable"
	ChannelStableProposedUpdates Channel = "stable-proposed-updates"
	ChannelTesters               Channel = "testers"
	ChannelDevelopers            Channel = "developers"
)

// Channels lists the supported repository channels in display order.
func Channels() []Channel {
	return []Channel{
		ChannelStable,
		ChannelStableProposedUpdates,
		ChannelTesters,
		ChannelDevelopers,
	}
}
