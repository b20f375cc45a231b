package tutorialservice

import "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"

var ErrNotFound = tutorialrepo.ErrNotFound
