package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// cacheKeyHexLen - сколько hex-символов SHA256 берется в ключ кэша
const cacheKeyHexLen = 32

// CacheKey строит детерминированное имя файла кэша из URL.
// Расширение сохраняется, чтобы по имени можно было понять тип файла.
func CacheKey(url, ext string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:cacheKeyHexLen] + "." + ext
}

// HashToken возвращает hex SHA256 от токена.
// На сервере refresh токены хранятся только в виде хеша.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
