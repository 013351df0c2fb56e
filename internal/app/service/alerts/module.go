package alerts

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewDismissalStore),
	fx.Provide(NewService),
)
