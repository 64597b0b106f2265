package notify

import (
	"msgsend/internal/infra/notifier"
)

// BuiltinChannels lists the channel keys of the bundled adapters in
// registration order.
func BuiltinChannels() []string {
	return []string{
		notifier.ChannelPushPlus,
		notifier.ChannelServerChan,
		notifier.ChannelWeComApp,
		notifier.ChannelWeComBot,
		notifier.ChannelBark,
		notifier.ChannelFeishu,
	}
}

// NewDefaultRegistry registers the six bundled adapters under their fixed keys.
func NewDefaultRegistry(cfg notifier.Config) (*Registry, error) {
	b := NewRegistryBuilder()
	senders := map[string]Sender{
		notifier.ChannelPushPlus:   notifier.NewPushPlusNotifier(cfg),
		notifier.ChannelServerChan: notifier.NewServerChanNotifier(cfg),
		notifier.ChannelWeComApp:   notifier.NewWeComAppNotifier(cfg),
		notifier.ChannelWeComBot:   notifier.NewWeComBotNotifier(cfg),
		notifier.ChannelBark:       notifier.NewBarkNotifier(cfg),
		notifier.ChannelFeishu:     notifier.NewFeishuNotifier(cfg),
	}
	for _, name := range BuiltinChannels() {
		if err := b.Register(name, senders[name]); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// NewDryRunRegistry binds every bundled channel key to a sender that only logs.
func NewDryRunRegistry() *Registry {
	b := NewRegistryBuilder()
	noop := notifier.NewNoOpNotifier()
	for _, name := range BuiltinChannels() {
		b.MustRegister(name, noop)
	}
	return b.Build()
}
