package utils

import (
	"fmt"
	"math/rand"
)

const avatarPoolSize = 100

// RandomAvatarURL picks one of the 100 stock avatars uniformly.
func RandomAvatarURL() string {
	idx := rand.Intn(avatarPoolSize) + 1
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", idx)
}
