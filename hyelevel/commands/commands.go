package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/ellavondegurechaff/hyelevel/hyelevel/commands/admin"
)

var Commands = []discord.ApplicationCommandCreate{
	Rank,
	Top,
}

func init() {
	Commands = append(Commands, admin.Commands...)
}
