package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MarketplaceABI is the published interface of the deployed course
// marketplace contract. The contract itself is a black box; only these
// entry points are consumed.
const MarketplaceABI = `[
  {"inputs":[],"name":"getAdmin","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"courseCreationFee","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"priceFeedAddress","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"_amount","type":"uint256"}],"name":"convertFromUSD","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"_id","type":"uint256"}],"name":"getCourse","outputs":[{"components":[{"internalType":"uint256","name":"id","type":"uint256"},{"internalType":"address","name":"instructor","type":"address"},{"internalType":"string","name":"title","type":"string"},{"internalType":"string","name":"description","type":"string"},{"internalType":"string","name":"coverImage","type":"string"},{"internalType":"string[]","name":"videoURLs","type":"string[]"},{"internalType":"uint256","name":"price","type":"uint256"}],"internalType":"struct DecentralCourses.Course","name":"","type":"tuple"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"getAllCourses","outputs":[{"components":[{"internalType":"uint256","name":"id","type":"uint256"},{"internalType":"address","name":"instructor","type":"address"},{"internalType":"string","name":"title","type":"string"},{"internalType":"string","name":"description","type":"string"},{"internalType":"string","name":"coverImage","type":"string"},{"internalType":"string[]","name":"videoURLs","type":"string[]"},{"internalType":"uint256","name":"price","type":"uint256"}],"internalType":"struct DecentralCourses.Course[]","name":"","type":"tuple[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"_instructor","type":"address"}],"name":"getInstructorCourses","outputs":[{"internalType":"uint256[]","name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"address","name":"_student","type":"address"}],"name":"getStudentEnrollments","outputs":[{"internalType":"uint256[]","name":"","type":"uint256[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"string","name":"_title","type":"string"},{"internalType":"string","name":"_description","type":"string"},{"internalType":"string","name":"_coverImage","type":"string"},{"internalType":"string[]","name":"_videoURLs","type":"string[]"},{"internalType":"uint256","name":"_price","type":"uint256"}],"name":"createCourse","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"_id","type":"uint256"}],"name":"enrollInCourse","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"_newFee","type":"uint256"}],"name":"changeCourseCreationFee","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"address","name":"_newAddress","type":"address"}],"name":"updatePriceFeedAddress","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"address","name":"_newAdmin","type":"address"}],"name":"changeAdminAddress","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"withdrawBalance","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// marketCourse mirrors the contract's Course tuple for ABI decoding.
type marketCourse struct {
	Id          *big.Int
	Instructor  common.Address
	Title       string
	Description string
	CoverImage  string
	VideoURLs   []string
	Price       *big.Int
}
