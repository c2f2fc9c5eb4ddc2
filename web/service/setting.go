package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/util/common"
	"house-panel/util/random"
	"house-panel/util/reflect_util"
	"house-panel/web/entity"
)

var defaultValueMap = map[string]string{
	"webListen":         "",
	"webPort":           "8080",
	"webCertFile":       "",
	"webKeyFile":        "",
	"webBasePath":       "/",
	"sessionMaxAge":     "60",
	"secret":            random.Seq(32),
	"timeLocation":      "America/New_York",
	"siteURL":           "http://localhost:8080",
	"smtpHost":          "",
	"smtpPort":          "587",
	"smtpUsername":      "",
	"smtpPassword":      "",
	"smtpFrom":          "house-panel@localhost",
	"resetTokenMinutes": "60",
	"hassleYear":        "0",
}

// SettingService reads and writes the key/value settings table, falling back
// to defaultValueMap for keys never saved.
type SettingService struct{}

func (s *SettingService) GetAllSetting() (*entity.AllSetting, error) {
	db := database.GetDB()
	settings := make([]*model.Setting, 0)
	err := db.Model(model.Setting{}).Find(&settings).Error
	if err != nil {
		return nil, err
	}

	allSetting := &entity.AllSetting{}
	t := reflect.TypeOf(allSetting).Elem()
	v := reflect.ValueOf(allSetting).Elem()
	fields := reflect_util.GetFields(t)

	setSetting := func(key, value string) (err error) {
		defer func() {
			panicErr := recover()
			if panicErr != nil {
				err = errors.New(fmt.Sprint(panicErr))
			}
		}()

		var found bool
		var field reflect.StructField
		for _, f := range fields {
			if f.Tag.Get("json") == key {
				field = f
				found = true
				break
			}
		}

		if !found {
			// internally generated keys (secret) are not exposed for editing
			return nil
		}

		fieldV := v.FieldByName(field.Name)
		switch t := fieldV.Interface().(type) {
		case int:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			fieldV.SetInt(n)
		case string:
			fieldV.SetString(value)
		case bool:
			fieldV.SetBool(value == "true")
		default:
			return common.NewErrorf("unknown field %v type %v", key, t)
		}
		return
	}

	keyMap := map[string]bool{}
	for _, setting := range settings {
		if err := setSetting(setting.Key, setting.Value); err != nil {
			return nil, err
		}
		keyMap[setting.Key] = true
	}

	for key, value := range defaultValueMap {
		if keyMap[key] {
			continue
		}
		if err := setSetting(key, value); err != nil {
			return nil, err
		}
	}

	return allSetting, nil
}

// UpdateAllSetting persists every editable field of the settings form.
func (s *SettingService) UpdateAllSetting(allSetting *entity.AllSetting) error {
	if err := allSetting.CheckValid(); err != nil {
		return err
	}

	t := reflect.TypeOf(allSetting).Elem()
	v := reflect.ValueOf(allSetting).Elem()
	fields := reflect_util.GetFields(t)
	errs := make([]error, 0)
	for _, field := range fields {
		key := field.Tag.Get("json")
		if key == "" {
			continue
		}
		fieldV := v.FieldByName(field.Name)
		value := fmt.Sprint(fieldV.Interface())
		errs = append(errs, s.saveSetting(key, value))
	}
	return common.Combine(errs...)
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Key = key
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	return s.setInt("webPort", port)
}

// ResetSettings drops every stored setting so defaults apply again.
func (s *SettingService) ResetSettings() error {
	db := database.GetDB()
	return db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) GetCertFile() (string, error) {
	return s.getString("webCertFile")
}

func (s *SettingService) GetKeyFile() (string, error) {
	return s.getString("webKeyFile")
}

func (s *SettingService) GetBasePath() (string, error) {
	basePath, err := s.getString("webBasePath")
	if err != nil {
		return "", err
	}
	if basePath == "" {
		basePath = "/"
	}
	if basePath[len(basePath)-1] != '/' {
		basePath += "/"
	}
	return basePath, nil
}

func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

// GetSecret returns the session signing secret, persisting the generated
// default on first read so sessions survive restarts.
func (s *SettingService) GetSecret() ([]byte, error) {
	if _, err := s.getSetting("secret"); database.IsNotFound(err) {
		if err := s.saveSetting("secret", defaultValueMap["secret"]); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	secret, err := s.getString("secret")
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		location, err = time.LoadLocation(defaultLocation)
	}
	return location, err
}

func (s *SettingService) GetSiteURL() (string, error) {
	return s.getString("siteURL")
}

func (s *SettingService) GetSMTPHost() (string, error) {
	return s.getString("smtpHost")
}

func (s *SettingService) GetSMTPPort() (int, error) {
	return s.getInt("smtpPort")
}

func (s *SettingService) GetSMTPUsername() (string, error) {
	return s.getString("smtpUsername")
}

func (s *SettingService) GetSMTPPassword() (string, error) {
	return s.getString("smtpPassword")
}

func (s *SettingService) GetSMTPFrom() (string, error) {
	return s.getString("smtpFrom")
}

func (s *SettingService) GetResetTokenMinutes() (int, error) {
	return s.getInt("resetTokenMinutes")
}

// GetHassleYear returns the hassle year currently open for rank submissions,
// 0 when no hassle is running.
func (s *SettingService) GetHassleYear() (int, error) {
	return s.getInt("hassleYear")
}

func (s *SettingService) SetHassleYear(year int) error {
	return s.setInt("hassleYear", year)
}
