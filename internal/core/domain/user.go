package domain

type User struct {
	Username     string
	Email        string
	PasswordHash string
	Notify       bool
	Favourites   []int64
}

// UserData is the public part of a [User].
type UserData struct {
	Username   string
	Email      string
	Notify     bool
	Favourites []int64
}

func (u User) Data() UserData {
	favourites := u.Favourites
	if favourites == nil {
		favourites = []int64{}
	}
	return UserData{
		Username:   u.Username,
		Email:      u.Email,
		Notify:     u.Notify,
		Favourites: favourites,
	}
}
