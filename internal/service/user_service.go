package service

import (
	"Inkcard/internal/api/dto"
	"Inkcard/internal/model"
	"Inkcard/internal/pkg/consts"
	"Inkcard/internal/pkg/redis"
	"Inkcard/internal/pkg/security"
	"Inkcard/internal/repository"
	"context"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) error
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id, viewerID primitive.ObjectID) (*dto.UserDTO, error)
	GetUserByUsername(ctx context.Context, username string, viewerID primitive.ObjectID) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profileDTO *dto.UpdateProfileDTO) error
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, data []byte, contentType string) (string, error)
	UpdateCover(ctx context.Context, id primitive.ObjectID, data []byte, contentType string) (string, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	store    ImageStore
}

func NewUserService(userRepo repository.UserRepo, store ImageStore) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		store:    store,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, regDTO.Username, regDTO.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExist
	}

	user := &model.User{}
	err = copier.Copy(user, regDTO)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}
	user.Password = passwordHash
	user.Role = consts.RoleUser
	user.Badge = consts.BadgeNone
	user.Followers = []primitive.ObjectID{}
	user.Following = []primitive.ObjectID{}
	user.Posts = []primitive.ObjectID{}
	user.Saved = []primitive.ObjectID{}

	return s.userRepo.Create(ctx, user)
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, loginDTO.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if !security.VerifyPassword(user.Password, loginDTO.Password) {
		return "", ErrPasswordIncorrect
	}
	return security.GenerateToken(user.ID.Hex(), user.Role)
}

// Logout 把 Token 签名拉黑到其自然过期为止
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlockKey+signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id, viewerID primitive.ObjectID) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, viewerID), nil
}

func (s *UserServiceImpl) GetUserByUsername(ctx context.Context, username string, viewerID primitive.ObjectID) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user, viewerID), nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id primitive.ObjectID, profileDTO *dto.UpdateProfileDTO) error {
	set := bson.M{}
	if profileDTO.Name != nil {
		set["name"] = *profileDTO.Name
	}
	if profileDTO.Bio != nil {
		set["bio"] = *profileDTO.Bio
	}
	if len(set) == 0 {
		return nil
	}

	err := s.userRepo.UpdateProfile(ctx, id, set)
	if err != nil {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id primitive.ObjectID, data []byte, contentType string) (string, error) {
	return s.updateImage(ctx, id, consts.ImageScopeProfile, "profile", data, contentType)
}

func (s *UserServiceImpl) UpdateCover(ctx context.Context, id primitive.ObjectID, data []byte, contentType string) (string, error) {
	return s.updateImage(ctx, id, consts.ImageScopeCover, "cover_img", data, contentType)
}

// updateImage 先传新图再落库，成功后释放旧图
func (s *UserServiceImpl) updateImage(ctx context.Context, id primitive.ObjectID, scope, field string, data []byte, contentType string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	info, err := s.store.Upload(ctx, scope, uuid.NewString(), data, contentType)
	if err != nil {
		return "", ErrImageUpload
	}

	err = s.userRepo.UpdateProfile(ctx, id, bson.M{field: info.URL})
	if err != nil {
		s.store.Release(ctx, info.URL)
		return "", err
	}

	old := user.Profile
	if field == "cover_img" {
		old = user.CoverImg
	}
	if old != "" {
		s.store.Release(ctx, old)
	}
	return info.URL, nil
}

// toUserDTO 折叠列表为计数，并标记访问者是否已关注
func toUserDTO(user *model.User, viewerID primitive.ObjectID) *dto.UserDTO {
	userDTO := &dto.UserDTO{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		Profile:        user.Profile,
		CoverImg:       user.CoverImg,
		Role:           user.Role,
		Badge:          user.Badge,
		FollowerCount:  len(user.Followers),
		FollowingCount: len(user.Following),
		PostCount:      len(user.Posts),
		SavedCount:     len(user.Saved),
		CreatedAt:      user.CreatedAt,
	}
	if !viewerID.IsZero() && viewerID != user.ID {
		for _, follower := range user.Followers {
			if follower == viewerID {
				userDTO.IsFollowing = true
				break
			}
		}
	}
	if viewerID != user.ID {
		userDTO.Email = ""
	}
	return userDTO
}
