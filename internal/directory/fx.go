package directory

import (
	"github.com/Nairolf13/Frimousse-sub002/internal/directory/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("directory.repository",
	fx.Provide(repository.Provide),
)
